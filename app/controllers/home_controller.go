package controllers

import (
	"net/http"

	"miniblog/app/models"
)

// HomeController serves the static root document and the liveness probe.
// Neither handler touches storage.
type HomeController struct {
	descriptor models.ServiceDescriptor
}

func NewHomeController() *HomeController {
	return &HomeController{descriptor: models.Descriptor()}
}

// Index returns the service descriptor.
func (hc *HomeController) Index(w http.ResponseWriter, _ *http.Request) {
	sendJSON(w, http.StatusOK, hc.descriptor)
}

// Health always answers 200 "OK".
func (hc *HomeController) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
