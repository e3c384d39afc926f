package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

type Status int

const (
	StatusSuccess Status = iota
	StatusCreated
	StatusNotFound
	StatusError
)

var statusNames = map[Status]string{
	StatusSuccess:  "Success",
	StatusCreated:  "Created",
	StatusNotFound: "NotFound",
	StatusError:    "Error",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for k, v := range statusNames {
		if v == name {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("%w: unknown status %q", ErrInvalidFormat, name)
}

// Response is the result tuple handed to the UI layer.
// Data is the zero value unless Status is Success or Created.
type Response[T any] struct {
	Data    T      `json:"data"`
	Status  Status `json:"status"`
	Message string `json:"message"`
	err     error
}

// Err returns the error a failed response was created from
func (r Response[T]) Err() error {
	return r.err
}

func Ok[T any](data T, msg string) Response[T] {
	return Response[T]{Data: data, Status: StatusSuccess, Message: msg}
}

func Created[T any](data T, msg string) Response[T] {
	return Response[T]{Data: data, Status: StatusCreated, Message: msg}
}

// Failed maps err onto NotFound or Error
func Failed[T any](err error) Response[T] {
	var zero T
	status := StatusError
	if errors.Is(err, ErrNotFound) {
		status = StatusNotFound
	}
	return Response[T]{Data: zero, Status: status, Message: err.Error(), err: err}
}
