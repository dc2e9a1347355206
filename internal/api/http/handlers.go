package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/classhour/examd/internal/exam"
)

var validate = validator.New()

// Mount attaches the exam API to the router.
func Mount(r chi.Router, svc *exam.Service) {
	r.Post("/exams", CreateExamHandler(svc))
	r.Patch("/exams/{examID}", UpdateExamHandler(svc))
	r.Put("/exams/{examID}/questions", ImportQuestionsHandler(svc))
	r.Get("/exams/{examID}", GetExamHandler(svc))
	r.Post("/exams/{examID}/submissions", SubmitHandler(svc))
	r.Get("/exams/{examID}/results", ResultsHandler(svc))
}

type createExamRequest struct {
	ID              string    `json:"id" validate:"required"`
	Title           string    `json:"title" validate:"required"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes" validate:"gte=0"`
}

// CreateExamHandler registers a new exam definition with two empty parts.
func CreateExamHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createExamRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		e, err := svc.CreateExam(r.Context(), exam.CreateExamInput{
			ID:              req.ID,
			Title:           req.Title,
			StartTime:       req.StartTime,
			DurationMinutes: req.DurationMinutes,
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, e)
	}
}

// UpdateExamHandler merges only the provided fields into the exam.
func UpdateExamHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "examID")
		var req exam.UpdateExamInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		e, err := svc.UpdateExam(r.Context(), id, req)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

type importRequest struct {
	Parts []exam.PartImport `json:"parts" validate:"required"`
}

// ImportQuestionsHandler replaces the exam's question set atomically.
func ImportQuestionsHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "examID")
		var req importRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		e, err := svc.ImportQuestions(r.Context(), id, req.Parts)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

// GetExamHandler serves the student view: redacted content plus the view
// window descriptor.
func GetExamHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "examID")
		se, err := svc.ExamForStudent(r.Context(), id)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, se)
	}
}

// SubmitHandler accepts a student's answers while the submission window is
// open and returns the freshly computed score.
func SubmitHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "examID")
		var req exam.SubmitInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		score, err := svc.Submit(r.Context(), id, req)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, score)
	}
}

// ResultsHandler returns the full stats snapshot over all stored submissions.
func ResultsHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "examID")
		snap, err := svc.Results(r.Context(), id)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}
