package validators

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailValidator(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  error
	}{
		{"valid", "test@example.com", nil},
		{"uppercase domain", "Test@EXAMPLE.com", nil},
		{"empty", "", ErrEmailEmpty},
		{"whitespace", "   ", ErrEmailEmpty},
		{"no at", "example.com", ErrEmailInvalid},
		{"display name", "Test <test@example.com>", ErrEmailInvalid},
		{"too long", strings.Repeat("a", 250) + "@example.com", ErrEmailTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, EmailValidator(tt.email), tt.want)
		})
	}
}

func TestPasswordValidator(t *testing.T) {
	assert.ErrorIs(t, PasswordValidator(""), ErrPasswordEmpty)
	assert.ErrorIs(t, PasswordValidator("pw"), ErrPasswordTooShort)
	assert.ErrorIs(t, PasswordValidator("1234"), ErrPasswordTooShort)
	assert.NoError(t, PasswordValidator("12345"))
	assert.ErrorIs(t, PasswordValidator(strings.Repeat("a", 256)), ErrPasswordTooLong)
}

type sampleBody struct {
	Title   *string `json:"title" validate:"required,max=10"`
	Minutes *int    `json:"time_minutes" validate:"required,min=0"`
	Link    string  `json:"link" validate:"omitempty,url"`
	Hidden  string  `json:"-" validate:"omitempty,max=1"`
}

func TestStruct(t *testing.T) {
	title := "a title that is too long"
	minutes := -1

	err := Struct(sampleBody{Title: &title, Minutes: &minutes, Link: "nope"})
	require.Error(t, err)

	fe, ok := err.(FieldErrors)
	require.True(t, ok)

	assert.Contains(t, fe, "title")
	assert.Contains(t, fe, "time_minutes")
	assert.Contains(t, fe, "link")
	assert.Equal(t, []string{"ensure this field has no more than 10 characters"}, fe["title"])

	err = Struct(sampleBody{})
	require.Error(t, err)
	fe = err.(FieldErrors)
	assert.Equal(t, []string{"this field is required"}, fe["title"])
	assert.Equal(t, []string{"this field is required"}, fe["time_minutes"])

	title = "ok"
	minutes = 5
	assert.NoError(t, Struct(sampleBody{Title: &title, Minutes: &minutes, Link: "https://example.com"}))
}

func TestFieldErrorsErr(t *testing.T) {
	fe := FieldErrors{}
	assert.NoError(t, fe.Err())

	fe.Add("name", "bad")
	assert.Error(t, fe.Err())
	assert.Contains(t, fe.Error(), "name: bad")
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)

	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["image"][0]
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestImageValidator(t *testing.T) {
	t.Run("nil header", func(t *testing.T) {
		code, _, _, err := ImageValidator(nil, 0)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.ErrorIs(t, err, ErrNoImage)
	})

	t.Run("png", func(t *testing.T) {
		code, f, mime, err := ImageValidator(fileHeader(t, "a.png", pngHeader), 1<<20)
		require.NoError(t, err)
		defer f.Close()

		assert.Zero(t, code)
		assert.Equal(t, "image/png", mime)
	})

	t.Run("text disguised as image", func(t *testing.T) {
		code, _, _, err := ImageValidator(fileHeader(t, "a.png", []byte("just some text")), 1<<20)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.ErrorIs(t, err, ErrImageTypeUnsupported)
	})

	t.Run("too large", func(t *testing.T) {
		code, _, _, err := ImageValidator(fileHeader(t, "a.png", pngHeader), 4)
		assert.Equal(t, http.StatusRequestEntityTooLarge, code)
		assert.ErrorIs(t, err, ErrImageTooLarge)
	})
}

func TestPriceValidator(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"5.25", nil},
		{"0", nil},
		{"999.99", nil},
		{"-10.5", nil},
		{"5.250", nil},
		{"1000", ErrPriceTooManyDigits},
		{"5.255", ErrPriceTooManyPlaces},
	}

	for _, tt := range tests {
		err := PriceValidator(decimal.RequireFromString(tt.in))
		if tt.want == nil {
			assert.NoError(t, err, tt.in)
			continue
		}

		assert.ErrorIs(t, err, tt.want, tt.in)
	}
}

func TestStruct_BlankString(t *testing.T) {
	type body struct {
		Name *string `json:"name" validate:"omitnil,min=1"`
	}

	blank := ""
	err := Struct(body{Name: &blank})
	require.Error(t, err)
	assert.Equal(t, []string{"this field may not be blank"}, err.(FieldErrors)["name"])

	assert.NoError(t, Struct(body{}))
}
