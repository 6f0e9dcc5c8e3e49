package handlers

import (
	"errors"
	"net/http"

	"github.com/sebamarsal/truco-tournament/services"
)

type InscriptionHandler struct {
	inscriptionService services.InscriptionService
}

func NewInscriptionHandler(inscriptionService services.InscriptionService) *InscriptionHandler {
	return &InscriptionHandler{inscriptionService: inscriptionService}
}

// Create is the public signup endpoint.
func (h *InscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.InscriptionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.inscriptionService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"inscription": participant}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	participants, err := h.inscriptionService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"inscriptions": participants}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InscriptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.InscriptionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.inscriptionService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"inscription": participant}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetPaid marks or unmarks the inscription fee as received.
func (h *InscriptionHandler) SetPaid(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Paid bool `json:"paid"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.inscriptionService.SetPaid(r.Context(), id, input.Paid)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"inscription": participant}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InscriptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.inscriptionService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadReceipt accepts a multipart form with a "receipt" file field.
func (h *InscriptionHandler) UploadReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, header, err := r.FormFile("receipt")
	if err != nil {
		mapServiceErrorToHTTP(w, r, services.ErrReceiptMissing)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("content type required"))
		return
	}

	participant, err := h.inscriptionService.UploadReceipt(r.Context(), id, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"inscription": participant}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
