package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// PathUUID извлекает UUID из переменной маршрута
func PathUUID(r *http.Request, name string) (string, error) {
	value := mux.Vars(r)[name]
	id, err := uuid.Parse(value)
	if err != nil {
		return "", fmt.Errorf("invalid %s: %w", name, err)
	}
	return id.String(), nil
}

// QueryTime читает необязательный параметр в формате RFC3339
func QueryTime(r *http.Request, name string) (*time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return &t, nil
}

// QueryInt читает необязательный целочисленный параметр
func QueryInt(r *http.Request, name string) (int, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return n, nil
}

// QueryString читает необязательный строковый параметр
func QueryString(r *http.Request, name string) *string {
	value := r.URL.Query().Get(name)
	if value == "" {
		return nil
	}
	return &value
}
