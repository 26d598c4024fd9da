package internal_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/budget-manager/internal"
)

var _ = Describe("AppError", func() {
	It("matches sentinels through wrapping and copies", func() {
		cause := errors.New("connection reset")
		err := fmt.Errorf("delete: %w", internal.ErrCannotDeleteSelf.WithCause(cause))

		Expect(errors.Is(err, internal.ErrCannotDeleteSelf)).To(BeTrue())
		Expect(errors.Is(err, internal.ErrAccountNotFound)).To(BeFalse())
		Expect(errors.Is(err, cause)).To(BeTrue())
		Expect(internal.ErrCannotDeleteSelf.Cause).To(BeNil())
	})

	It("maps self-action errors to 409", func() {
		status, _ := internal.ErrCannotDeleteSelf.ToHTTPResponse()
		Expect(status).To(Equal(http.StatusConflict))
	})

	It("serializes field errors without internal fields", func() {
		appErr := internal.NewValidationFieldError("amount", "invalid amount", internal.ErrCodeInvalidAmount).
			WithCause(errors.New("hidden"))

		body, err := json.Marshal(internal.Response{Error: appErr})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(MatchJSON(`{"error":{"type":"VALIDATION_ERROR","code":"VALIDATION_FAILED","message":"Validation failed","details":{"errors":[{"field":"amount","message":"invalid amount","code":"INVALID_AMOUNT"}]}}}`))
		Expect(appErr.FieldErrors()).To(HaveLen(1))
	})

	It("joins multiple field messages", func() {
		appErr := internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{
				{Field: "email", Message: "email is required"},
				{Field: "username", Message: "username is required"},
			}})
		Expect(appErr.GetDetailedMessage()).To(Equal("email is required; username is required"))
	})

	It("finds app errors in a chain", func() {
		_, ok := internal.IsAppError(fmt.Errorf("wrap: %w", internal.ErrInvalidToken))
		Expect(ok).To(BeTrue())
		_, ok = internal.IsAppError(errors.New("plain"))
		Expect(ok).To(BeFalse())
	})
})
