// Package friend contains all HTTP handlers for the Friend resource.
//
// HANDLER PATTERN — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────
// Each exported function takes its dependencies (the storage) once at
// start-up and returns the http.HandlerFunc the router calls on every
// request:
//
//	r.Post("/api/friends", friend.New(store))
//
// Each handler follows the same shape: validate what the client sent, make
// exactly one storage call, map the outcome to a status code. Storage
// errors are logged with their detail and answered with a fixed message.
package friend

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aanand-mishra/friends-api/internal/storage"
	"github.com/aanand-mishra/friends-api/internal/utils/response"
)

// Client-facing messages for 404 and 500 responses. The spelling of
// msgListFailed is part of the public contract.
const (
	msgNotFound     = "The friend with the specified ID does not exist."
	msgCreateFailed = "There was an error while saving the friend to the database"
	msgListFailed   = "The information could not be retreived."
	msgGetFailed    = "The information could not be retrieved."
	msgDeleteFailed = "The friend could not be removed"
	msgUpdateFailed = "There was an error while updating the friend to the database"
)

func logger(r *http.Request) *slog.Logger {
	return slog.Default().With(slog.String("request_id", middleware.GetReqID(r.Context())))
}

// writeValidationError answers a request that failed decoding or
// validation.
func writeValidationError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		if verr.Status != 0 {
			response.WriteJSON(w, verr.Status, response.ValidationResponse{ErrorMessage: verr.Message})
			return
		}
		response.BadRequest(w, verr.Message)
		return
	}
	response.BadRequest(w, msgMissingField)
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/friends
//
// Request body:
//
//	{ "firstName": "Ann", "lastName": "Lee", "age": 30 }
//
// Success (201 Created) — the stored record:
//
//	{ "id": "652f...", "firstName": "Ann", "lastName": "Lee", "age": 30 }
//
// Errors: 400 bad age / missing name / malformed JSON, 500 store failure.
// ─────────────────────────────────────────────────────────────────────────────
func New(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger(r)
		log.Info("creating a friend")

		friend, err := decodeFriend(w, r)
		if err == nil {
			err = validateFriend(friend)
		}
		if err != nil {
			log.Debug("rejected friend", slog.String("reason", err.Error()))
			writeValidationError(w, err)
			return
		}

		created, err := store.CreateFriend(r.Context(), friend)
		if err != nil {
			log.Error("error creating friend", slog.String("error", err.Error()))
			response.InternalError(w, msgCreateFailed)
			return
		}

		log.Info("friend created", slog.String("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// GetList handles GET /api/friends and returns every friend as a JSON
// array ([] when there are none).
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger(r)
		log.Info("getting all friends")

		friends, err := store.GetFriends(r.Context())
		if err != nil {
			log.Error("error getting friends", slog.String("error", err.Error()))
			response.InternalError(w, msgListFailed)
			return
		}

		response.WriteJSON(w, http.StatusOK, friends)
	}
}

// GetByID handles GET /api/friends/{id}.
func GetByID(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		log := logger(r).With(slog.String("id", id))
		log.Info("getting a friend")

		friend, err := store.GetFriendByID(r.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			response.NotFound(w, msgNotFound)
			return
		}
		if err != nil {
			log.Error("error getting friend", slog.String("error", err.Error()))
			response.InternalError(w, msgGetFailed)
			return
		}

		response.WriteJSON(w, http.StatusOK, friend)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/friends/{id}
// Replaces firstName, lastName and age. All three are validated exactly as
// on create; the id never changes.
//
// Success (200 OK) — the record as stored after the update.
// Errors: 400 validation, 404 unknown id, 500 store failure.
// ─────────────────────────────────────────────────────────────────────────────
func Update(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		log := logger(r).With(slog.String("id", id))
		log.Info("updating a friend")

		friend, err := decodeFriend(w, r)
		if err == nil {
			err = validateFriend(friend)
		}
		if err != nil {
			log.Debug("rejected friend", slog.String("reason", err.Error()))
			writeValidationError(w, err)
			return
		}

		updated, err := store.UpdateFriendByID(r.Context(), id, friend)
		if errors.Is(err, storage.ErrNotFound) {
			response.NotFound(w, msgNotFound)
			return
		}
		if err != nil {
			log.Error("error updating friend", slog.String("error", err.Error()))
			response.InternalError(w, msgUpdateFailed)
			return
		}

		log.Info("friend updated")
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /api/friends/{id} and answers with the removed
// record. Deleting the same id twice yields 404 the second time.
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		log := logger(r).With(slog.String("id", id))
		log.Info("deleting a friend")

		removed, err := store.DeleteFriendByID(r.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			response.NotFound(w, msgNotFound)
			return
		}
		if err != nil {
			log.Error("error deleting friend", slog.String("error", err.Error()))
			response.InternalError(w, msgDeleteFailed)
			return
		}

		log.Info("friend deleted")
		response.WriteJSON(w, http.StatusOK, removed)
	}
}
