package handler

import (
	"net/http"

	"github.com/NagawaEsther/live-well/internal/domain"
	"github.com/NagawaEsther/live-well/internal/service"
)

// ResourceHandler serves JSON CRUD for one entity type.
type ResourceHandler[T any, P domain.EntityPtr[T]] struct {
	svc  *service.ResourceService[T, P]
	errs errorWriter
}

// NewResourceHandler creates a ResourceHandler over svc.
func NewResourceHandler[T any, P domain.EntityPtr[T]](svc *service.ResourceService[T, P], errs errorWriter) *ResourceHandler[T, P] {
	return &ResourceHandler[T, P]{svc: svc, errs: errs}
}

// HandleCreate decodes a new entity and stores it. Any id in the body is
// ignored.
func (h *ResourceHandler[T, P]) HandleCreate(w http.ResponseWriter, r *http.Request) {
	entity := new(T)
	if err := readJSON(w, r, entity); err != nil {
		h.errs.write(w, r, err)
		return
	}
	if err := h.svc.Create(r.Context(), entity); err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entity)
}

func (h *ResourceHandler[T, P]) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(items))
}

func (h *ResourceHandler[T, P]) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	entity, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entity)
}

// HandleUpdate decodes the body over the stored entity, so fields absent
// from the body keep their values.
func (h *ResourceHandler[T, P]) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	entity, err := h.svc.Update(r.Context(), id, func(current *T) error {
		return readJSON(w, r, current)
	})
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entity)
}

func (h *ResourceHandler[T, P]) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": h.svc.Name() + " deleted successfully"})
}

// resourcePolicies names the policy for each CRUD operation.
type resourcePolicies struct {
	create, read, update, delete Policy
}

func allOps(p Policy) resourcePolicies {
	return resourcePolicies{create: p, read: p, update: p, delete: p}
}

// registerResource mounts the five CRUD routes for h under prefix.
func registerResource[T any, P domain.EntityPtr[T]](rt *router, prefix string, h *ResourceHandler[T, P], p resourcePolicies) {
	rt.handle("POST "+prefix, p.create, h.HandleCreate)
	rt.handle("GET "+prefix, p.read, h.HandleList)
	rt.handle("GET "+prefix+"/{id}", p.read, h.HandleGet)
	rt.handle("PUT "+prefix+"/{id}", p.update, h.HandleUpdate)
	rt.handle("DELETE "+prefix+"/{id}", p.delete, h.HandleDelete)
}
