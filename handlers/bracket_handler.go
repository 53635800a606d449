package handlers

import (
	"errors"
	"net/http"

	"github.com/markbrown88/pickleball-app-sub006/services"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bracketService services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bracketService}
}

func (h *BracketHandler) GetStopBracketHandler(w http.ResponseWriter, r *http.Request) {
	stopID, err := getIDFromURL(r, "stopID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bracket, err := h.bracketService.GetStopBracket(r.Context(), stopID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": bracket}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) GenerateBracketHandler(w http.ResponseWriter, r *http.Request) {
	stopID, err := getIDFromURL(r, "stopID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Kind    string `json:"kind"`
		TeamIDs []int  `json:"team_ids"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if len(input.TeamIDs) < 2 {
		badRequestResponse(w, r, errors.New("team_ids must contain at least two teams"))
		return
	}

	bracket, err := h.bracketService.GenerateBracket(r.Context(), stopID, input.TeamIDs, input.Kind)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bracket": bracket}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
