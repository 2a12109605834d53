package handler

import (
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-playground/validator/v10"
)

// maxBodyBytes caps request bodies well above the largest legal payload.
const maxBodyBytes = 1 << 20

// validate reports field names by their json tag so validation errors match
// the wire format.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

type addToCartRequest struct {
	UserID   string `json:"userId" validate:"required,max=100"`
	ItemID   string `json:"itemId" validate:"required,max=50"`
	Quantity int    `json:"quantity" validate:"required,gt=0,lte=1000"`
}

type checkoutRequest struct {
	UserID       string `json:"userId" validate:"required,max=100"`
	DiscountCode string `json:"discountCode" validate:"omitempty,max=50"`
}

func decodeAddToCart(r *http.Request) (*addToCartRequest, error) {
	data, err := readBody(r)
	if err != nil {
		return nil, err
	}

	var req addToCartRequest
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "userId":
			req.UserID, err = d.Str()
		case "itemId":
			req.ItemID, err = d.Str()
		case "quantity":
			req.Quantity, err = d.Int()
		default:
			err = d.Skip()
		}
		return err
	}); err != nil {
		return nil, errors.Wrap(err, "invalid request body")
	}

	req.UserID = strings.TrimSpace(req.UserID)
	req.ItemID = strings.TrimSpace(req.ItemID)
	if err := validate.Struct(&req); err != nil {
		return nil, validationError(err)
	}
	return &req, nil
}

func decodeCheckout(r *http.Request) (*checkoutRequest, error) {
	data, err := readBody(r)
	if err != nil {
		return nil, err
	}

	var req checkoutRequest
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "userId":
			req.UserID, err = d.Str()
		case "discountCode":
			if d.Next() == jx.Null {
				return d.Null()
			}
			req.DiscountCode, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	}); err != nil {
		return nil, errors.Wrap(err, "invalid request body")
	}

	req.UserID = strings.TrimSpace(req.UserID)
	req.DiscountCode = strings.TrimSpace(req.DiscountCode)
	if err := validate.Struct(&req); err != nil {
		return nil, validationError(err)
	}
	return &req, nil
}

func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read request body")
	}
	return data, nil
}

// validationError flattens validator errors into a single client-facing
// message listing each offending field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validation failed")
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s %s", fe.Field(), validationMessage(fe)))
	}
	return errors.New("validation failed: " + strings.Join(parts, "; "))
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	}
	return "is invalid"
}
