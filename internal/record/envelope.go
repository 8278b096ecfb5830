package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/alexisbeaulieu97/careerdesk/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

// Validate checks the minimal contract every record must meet.
func Validate(r Record) error {
	if err := validatorInstance().Struct(r); err != nil {
		return apperrors.NewValidationError("id", "record is missing an id", err)
	}
	return nil
}

// DecodeEnvelope parses a collection response of the form
// {"<key>": [ {...}, ... ]} and validates every record.
func DecodeEnvelope(body []byte, key string) ([]Record, error) {
	var envelope map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&envelope); err != nil {
		return nil, apperrors.NewValidationError(key, "response is not a JSON object", err)
	}

	raw, ok := envelope[key]
	if !ok {
		return nil, apperrors.NewValidationError(key, fmt.Sprintf("response has no %q field", key), nil)
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, apperrors.NewValidationError(key, "collection is not an array of objects", err)
	}

	for i, r := range records {
		if err := Validate(r); err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("%s[%d]", key, i), "record is missing an id", err)
		}
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// DecodeOne parses a single-record response. Responses may wrap the record
// under key or return it bare.
func DecodeOne(body []byte, key string) (Record, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return Record{}, apperrors.NewValidationError(key, "response is not a JSON object", err)
	}

	payload := body
	if raw, ok := envelope[key]; ok {
		payload = raw
	}

	var r Record
	if err := json.Unmarshal(payload, &r); err != nil {
		return Record{}, apperrors.NewValidationError(key, "record is not a JSON object", err)
	}
	if err := Validate(r); err != nil {
		return Record{}, err
	}
	return r, nil
}
