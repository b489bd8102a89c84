package apperr

import (
	"errors"
	"net/http"
)

// ValidationError : champ requis manquant ou valeur hors énumération (400)
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError : entité, produit ou type de collection inexistant (404)
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ForbiddenError : le demandeur n'est pas propriétaire de la ressource (403)
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// StoreError enveloppe toute erreur d'E/S du store, y compris les
// identifiants mal formés (500). Err n'est jamais renvoyée au client.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

func Validation(msg string) error { return &ValidationError{Message: msg} }

func NotFound(msg string) error { return &NotFoundError{Message: msg} }

func Forbidden(msg string) error { return &ForbiddenError{Message: msg} }

func Store(op string, err error) error { return &StoreError{Op: op, Err: err} }

// HTTPStatus traduit une erreur de la taxonomie en code HTTP.
// Toute erreur inconnue est traitée comme une erreur store.
func HTTPStatus(err error) int {
	var (
		ve *ValidationError
		ne *NotFoundError
		fe *ForbiddenError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ne):
		return http.StatusNotFound
	case errors.As(err, &fe):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage renvoie le message exposable au client, ou fallback pour
// les erreurs store.
func PublicMessage(err error, fallback string) string {
	var (
		ve *ValidationError
		ne *NotFoundError
		fe *ForbiddenError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &ne):
		return ne.Message
	case errors.As(err, &fe):
		return fe.Message
	default:
		return fallback
	}
}

func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}
