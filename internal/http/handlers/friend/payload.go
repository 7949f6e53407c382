package friend

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/friends-api/internal/types"
)

// Client-facing messages for 400 responses.
const (
	msgInvalidAge   = "Age must be a whole number between 1 and 120"
	msgMissingField = "Please provide firstName, lastName and age for the friend."
	msgInvalidJSON  = "Request body must be valid JSON"
	msgTooLarge     = "Request body must not exceed 1MB"
)

// maxBodyBytes caps how much of a request body is read.
const maxBodyBytes = 1 << 20

// ValidationError is a request the API refuses before touching the store.
// Message is safe to show the client. Status is the response code, 400
// when zero.
type ValidationError struct {
	Field   string
	Message string
	Status  int
}

func (e *ValidationError) Error() string { return e.Message }

var (
	// ErrInvalidAge: age absent, not a whole number, or outside [1, 120].
	ErrInvalidAge = &ValidationError{Field: "age", Message: msgInvalidAge}

	// ErrMissingField: firstName or lastName absent, empty or falsy.
	ErrMissingField = &ValidationError{Message: msgMissingField}

	// ErrInvalidJSON: the body could not be decoded at all.
	ErrInvalidJSON = &ValidationError{Message: msgInvalidJSON}

	// ErrBodyTooLarge: the body is longer than maxBodyBytes.
	ErrBodyTooLarge = &ValidationError{Message: msgTooLarge, Status: http.StatusRequestEntityTooLarge}
)

// validate is shared by all requests; a *validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names ("age", not "Age").
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// payload is the loose shape of a create/update body. Every field is
// decoded as "any JSON value" so a wrong type becomes a validation
// failure with the right message instead of a decode error.
type payload struct {
	FirstName any `json:"firstName"`
	LastName  any `json:"lastName"`
	Age       any `json:"age"`
}

// decodeFriend reads the request body and returns the candidate friend.
// An empty body is an empty object, not an error.
func decodeFriend(w http.ResponseWriter, r *http.Request) (types.Friend, error) {
	var p payload

	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&p)
	if err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return types.Friend{}, ErrBodyTooLarge
		}
		return types.Friend{}, ErrInvalidJSON
	}

	return types.Friend{
		FirstName: asString(p.FirstName),
		LastName:  asString(p.LastName),
		Age:       asAge(p.Age),
	}, nil
}

// asString returns the text form of a scalar name. Falsy values (absent,
// null, false, 0, "") and objects or arrays become "", which fails the
// required check.
func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		if s == 0 {
			return ""
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		if !s {
			return ""
		}
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// asAge returns the whole number held by v, or 0 when v is absent, not a
// number, or has a fractional part. 0 is outside the allowed range, so
// every one of those cases fails the age check.
func asAge(v any) int {
	switch age := v.(type) {
	case float64:
		if age != math.Trunc(age) || age < types.MinAge || age > types.MaxAge {
			return 0
		}
		return int(age)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(age))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// validateFriend applies the write rules in a fixed order: the age range
// is checked first, so a request with a bad or missing age reports the age
// message even when a name is missing too.
func validateFriend(friend types.Friend) error {
	err := validate.Struct(friend)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ErrMissingField
	}

	for _, fe := range fieldErrs {
		if fe.Field() == "age" {
			return ErrInvalidAge
		}
	}
	return ErrMissingField
}
