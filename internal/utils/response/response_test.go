package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, WriteJSON(rec, http.StatusCreated, map[string]int{"id": 1}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":1}`, rec.Body.String())
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, WriteError(rec, http.StatusNotFound, errors.New("no student found with id: 42")))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":"error","error":"no student found with id: 42"}`, rec.Body.String())
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestValidationError(t *testing.T) {
	type draft struct {
		Name     string `validate:"required"`
		Password string `validate:"required"`
		Age      int    `validate:"min=1"`
	}

	err := validator.New().Struct(draft{})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	got := ValidationError(verrs)
	assert.Equal(t, StatusError, got.Status)
	assert.Equal(t,
		"field Name is required, field Password is required, field Age is invalid",
		got.Error)
}
