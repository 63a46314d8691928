package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Title    string  `json:"title" validate:"required"`
	Genre    string  `json:"genre" validate:"required,oneof=FICTION SCIENCE"`
	ISBN     string  `json:"isbn" validate:"required,isbn"`
	Copies   *int    `json:"copies" validate:"required,min=0"`
	Quantity int     `json:"quantity" validate:"omitempty,min=1"`
	Nick     *string `json:"nick" validate:"omitempty,min=3"`
}

func intp(n int) *int       { return &n }
func strp(s string) *string { return &s }

func TestStruct_Valid(t *testing.T) {
	fields := Struct(sampleRequest{
		Title:  "Cosmos",
		Genre:  "SCIENCE",
		ISBN:   "9780345331359",
		Copies: intp(0),
	})
	assert.Nil(t, fields)
}

func TestStruct_RequiredFields(t *testing.T) {
	fields := Struct(sampleRequest{})
	require.NotNil(t, fields)

	for _, path := range []string{"title", "genre", "isbn", "copies"} {
		fe, ok := fields[path]
		require.True(t, ok, "missing error for %s", path)
		assert.Equal(t, KindRequired, fe.Kind)
		assert.Equal(t, NameValidatorError, fe.Name)
		assert.Equal(t, path, fe.Path)
		assert.Equal(t, path+" is required", fe.Message)
		assert.Equal(t, fe.Message, fe.Properties["message"])
		assert.Equal(t, KindRequired, fe.Properties["type"])
	}
}

func TestStruct_EnumTranslation(t *testing.T) {
	fields := Struct(sampleRequest{Title: "T", Genre: "ROMANCE", ISBN: "9780345331359", Copies: intp(1)})
	require.NotNil(t, fields)

	fe, ok := fields["genre"]
	require.True(t, ok)
	assert.Equal(t, KindInvalidEnumValue, fe.Kind)
	assert.Equal(t, "ROMANCE", fe.Value)
	assert.Equal(t, []string{"FICTION", "SCIENCE"}, fe.Properties["enum"])
	assert.Contains(t, fe.Message, "must be one of")
}

func TestStruct_NumericAndStringBounds(t *testing.T) {
	fields := Struct(sampleRequest{
		Title:  "T",
		Genre:  "FICTION",
		ISBN:   "9780345331359",
		Copies: intp(-2),
	})
	require.NotNil(t, fields)
	fe := fields["copies"]
	assert.Equal(t, KindTooSmall, fe.Kind)
	assert.Equal(t, 0, fe.Properties["min"])
	_, hasLen := fe.Properties["minLength"]
	assert.False(t, hasLen)

	fields = Struct(sampleRequest{
		Title:  "T",
		Genre:  "FICTION",
		ISBN:   "9780345331359",
		Copies: intp(1),
		Nick:   strp("ab"),
	})
	require.NotNil(t, fields)
	fe = fields["nick"]
	assert.Equal(t, KindTooSmall, fe.Kind)
	assert.Equal(t, 3, fe.Properties["minLength"])
}

func TestStruct_ISBNTag(t *testing.T) {
	fields := Struct(sampleRequest{Title: "T", Genre: "FICTION", ISBN: "not-an-isbn", Copies: intp(1)})
	require.NotNil(t, fields)

	fe, ok := fields["isbn"]
	require.True(t, ok)
	assert.Equal(t, KindFormat, fe.Kind)
	assert.Equal(t, "Invalid ISBN format", fe.Message)

	// Hyphenated forms pass through the custom rule.
	fields = Struct(sampleRequest{Title: "T", Genre: "FICTION", ISBN: "978-0-345-33135-9", Copies: intp(1)})
	assert.Nil(t, fields)
}

func TestNewFieldError_MergesExtraProperties(t *testing.T) {
	fe := NewFieldError("quantity", KindInsufficientStock, "Only 3 copies remaining", 10, map[string]any{"available": 3})
	assert.Equal(t, "quantity", fe.Path)
	assert.Equal(t, 10, fe.Value)
	assert.Equal(t, 3, fe.Properties["available"])
	assert.Equal(t, "Only 3 copies remaining", fe.Properties["message"])
	assert.Equal(t, KindInsufficientStock, fe.Properties["type"])
}

func TestDescriptors(t *testing.T) {
	g := Generic(NameNotFoundError)
	assert.Equal(t, NameNotFoundError, g.Name)
	assert.Nil(t, g.Errors)

	fe := NewFieldError("isbn", KindUnique, "isbn already exists", "x", nil)
	d := Single(fe)
	assert.Equal(t, NameValidationError, d.Name)
	require.Len(t, d.Errors, 1)
	assert.Equal(t, fe, d.Errors["isbn"])
}
