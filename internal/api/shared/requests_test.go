package shared

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testForm struct {
	Email    string `form:"email"       validate:"required,email"`
	Password string `form:"password,raw" validate:"required,min=8"`
	Ignored  string
	Count    int `form:"count"`
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestDecodeForm(t *testing.T) {
	t.Parallel()

	req := postForm(url.Values{
		"email":    {"  ada@example.com "},
		"password": {" secret pass "},
		"Ignored":  {"x"},
		"count":    {"3"},
	})

	var form testForm
	require.NoError(t, DecodeForm(req, &form))

	assert.Equal(t, "ada@example.com", form.Email, "values are trimmed")
	assert.Equal(t, " secret pass ", form.Password, "raw fields keep whitespace")
	assert.Empty(t, form.Ignored, "untagged fields are left alone")
	assert.Zero(t, form.Count, "non-string fields are left alone")
}

func TestDecodeForm_InvalidTarget(t *testing.T) {
	t.Parallel()

	req := postForm(url.Values{})
	var form testForm

	assert.ErrorIs(t, DecodeForm(req, form), ErrNotStructPointer)
	s := "x"
	assert.ErrorIs(t, DecodeForm(req, &s), ErrNotStructPointer)
}

func TestDecodeForm_BodyTooLarge(t *testing.T) {
	t.Parallel()

	req := postForm(url.Values{"email": {strings.Repeat("a", MaxFormBytes+1)}})
	var form testForm
	assert.Error(t, DecodeForm(req, &form))
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	err := ValidateRequest(&testForm{Email: "ada@example.com", Password: "longenough"})
	assert.NoError(t, err)

	err = ValidateRequest(&testForm{Email: "not-an-email", Password: "short"})
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

type selfValidating struct{ called bool }

func (s *selfValidating) Validate() error {
	s.called = true
	return nil
}

func TestValidateRequest_UsesValidateMethod(t *testing.T) {
	t.Parallel()

	v := &selfValidating{}
	require.NoError(t, ValidateRequest(v))
	assert.True(t, v.called)
}
