package http

import (
	"net/http"

	"github.com/d0ngw/visitcounter/counter"
)

// VisitController exposes the visit counter operations:
// POST {path}/visit?key=...  record one visit
// GET  {path}/count?key=...  read the current count
type VisitController struct {
	BaseController
	visitCounter *counter.VisitCounter
}

// NewVisitController create VisitController under path
func NewVisitController(name, path string, visitCounter *counter.VisitCounter) *VisitController {
	return &VisitController{
		BaseController: BaseController{Name: name, Path: path},
		visitCounter:   visitCounter,
	}
}

// GetHandlers implements Controller.GetHandlers
func (p *VisitController) GetHandlers() (map[string]http.HandlerFunc, error) {
	return ReflectHandlers(p)
}

// Visit records one visit of the key
func (p *VisitController) Visit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		RenderFail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	key := GetParameter(r.URL.Query(), "key")
	if key == "" {
		RenderFail(w, http.StatusBadRequest, "key must not be empty")
		return
	}
	count, err := p.visitCounter.RecordVisit(key)
	if err != nil {
		RenderFail(w, http.StatusBadRequest, err.Error())
		return
	}
	RenderSuccess(w, count)
}

// Count reads the current count of the key
func (p *VisitController) Count(w http.ResponseWriter, r *http.Request) {
	key := GetParameter(r.URL.Query(), "key")
	if key == "" {
		RenderFail(w, http.StatusBadRequest, "key must not be empty")
		return
	}
	count, err := p.visitCounter.ReadCount(key)
	if err != nil {
		RenderFail(w, http.StatusBadRequest, err.Error())
		return
	}
	RenderSuccess(w, count)
}
