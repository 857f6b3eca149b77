// Package bind decodes an HTTP request into a struct and validates it.
//
// Two entry points: JSON for application/json bodies and Form for
// url-encoded or multipart submissions (the quote form posts multipart so
// it can carry attachments).
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/agrovia/agrovia/config"
	"github.com/agrovia/agrovia/pkg/validate"
)

// JSON decodes r.Body into dest and validates it. The body is capped at
// MAX_BODY_BYTES. Returns (errs, nil) on validation failure and (nil, err)
// when the body is malformed or too large.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())

	if err = json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	errs = validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}

// Form decodes form fields (url-encoded or multipart) into dest via `form`
// struct tags, then validates. Multipart memory is capped at MAX_BODY_BYTES;
// larger file parts spill to temp files, which is fine — per-file size is
// enforced separately by pkg/upload.
func Form(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		err = r.ParseMultipartForm(config.MaxBodyBytes())
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, fmt.Errorf("invalid form: %w", err)
	}

	if err := fill(dest, r); err != nil {
		return nil, err
	}

	errs = validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}

// fill copies form values into dest. Supported field kinds: string,
// []string (repeated form field), int, int64, float64, bool.
func fill(dest interface{}, r *http.Request) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind: dest must be a pointer to struct")
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		name := field.Tag.Get("form")
		if name == "" || name == "-" {
			continue
		}

		target := rv.Field(i)
		switch target.Kind() {
		case reflect.Slice:
			if target.Type().Elem().Kind() == reflect.String {
				values := r.Form[name]
				// Also accept "name[]" — some front-end form libraries
				// suffix repeated fields.
				values = append(values, r.Form[name+"[]"]...)
				target.Set(reflect.ValueOf(cleanValues(values)))
			}
		case reflect.String:
			target.SetString(strings.TrimSpace(r.FormValue(name)))
		case reflect.Int, reflect.Int64:
			if raw := r.FormValue(name); raw != "" {
				n, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					return fmt.Errorf("bind: field %s must be an integer", name)
				}
				target.SetInt(n)
			}
		case reflect.Float64:
			if raw := r.FormValue(name); raw != "" {
				f, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return fmt.Errorf("bind: field %s must be a number", name)
				}
				target.SetFloat(f)
			}
		case reflect.Bool:
			raw := strings.ToLower(r.FormValue(name))
			target.SetBool(raw == "true" || raw == "1" || raw == "on")
		}
	}
	return nil
}

func cleanValues(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
