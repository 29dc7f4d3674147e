package handlers

import (
	"errors"
	"fmt"
	"reflect"

	"attendly/internal/adapters/http/middleware"
	"attendly/internal/adapters/persistence/models"
	"attendly/internal/adapters/persistence/store"
	"attendly/internal/core/domain"
	"attendly/internal/core/services"
	"attendly/internal/pkg/pagination"
	"attendly/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EntityHandler serves the generic CRUD endpoints for one entity. All
// entity route groups share this implementation; what differs per entity
// is only the grant table consulted by the permission middleware.
type EntityHandler struct {
	entity      domain.Entity
	crud        *services.CrudService
	columns     map[string]struct{}
	ownerScoped bool
}

// NewEntityHandler creates a new entity handler
func NewEntityHandler(entity domain.Entity, crud *services.CrudService) *EntityHandler {
	return &EntityHandler{
		entity:  entity,
		crud:    crud,
		columns: store.Columns(models.For(entity)),
	}
}

// NewOwnerScopedEntityHandler creates a handler whose reads only ever
// see records the requesting account created. The client attendance
// surface uses it so one account cannot browse another's records.
func NewOwnerScopedEntityHandler(entity domain.Entity, crud *services.CrudService) *EntityHandler {
	h := NewEntityHandler(entity, crud)
	h.ownerScoped = true
	return h
}

// listRequest represents the body accepted by list and count endpoints
type listRequest struct {
	Where map[string]interface{} `json:"where"`
}

// idsRequest represents the body accepted by bulk mutation endpoints
type idsRequest struct {
	IDs []uint `json:"ids"`
}

// filterFromBody builds the read filter for list and count. Every where
// key must name a real column of the entity; field names end up inside
// the compiled SQL fragment, so nothing caller-controlled passes
// through unchecked.
func (h *EntityHandler) filterFromBody(c *fiber.Ctx) (store.Cond, error) {
	var conds store.And
	var req listRequest
	if err := c.BodyParser(&req); err == nil {
		for field, value := range req.Where {
			if _, ok := h.columns[field]; !ok {
				return nil, fmt.Errorf("unknown filter column %q", field)
			}
			conds = append(conds, store.Eq{Field: field, Value: value})
		}
	}
	if h.ownerScoped {
		conds = append(conds, store.Eq{Field: "added_by", Value: middleware.UserID(c)})
	}
	if len(conds) == 0 {
		return nil, nil
	}
	return conds, nil
}

// checkPatch rejects patch keys that are not columns of the entity.
func (h *EntityHandler) checkPatch(patch store.Patch) error {
	for column := range patch {
		if _, ok := h.columns[column]; !ok {
			return fmt.Errorf("unknown column %q", column)
		}
	}
	return nil
}

// newRecord allocates a fresh model instance for the handler's entity.
func (h *EntityHandler) newRecord() interface{} {
	return models.For(h.entity)
}

// newSlice allocates a pointer to an empty slice of the entity's model.
func (h *EntityHandler) newSlice() interface{} {
	model := reflect.TypeOf(models.For(h.entity)).Elem()
	return reflect.New(reflect.SliceOf(model)).Interface()
}

// setOwner stamps the acting account on a freshly parsed record.
func setOwner(record interface{}, userID uint) {
	rv := reflect.ValueOf(record).Elem()
	if f := rv.FieldByName("AddedBy"); f.IsValid() {
		f.Set(reflect.ValueOf(&userID))
	}
	if f := rv.FieldByName("IsActive"); f.IsValid() {
		f.SetBool(true)
	}
	if f := rv.FieldByName("IsDeleted"); f.IsValid() {
		f.SetBool(false)
	}
	if f := rv.FieldByName("ID"); f.IsValid() {
		f.SetUint(0)
	}
}

// Create handles single record creation
func (h *EntityHandler) Create(c *fiber.Ctx) error {
	record := h.newRecord()
	if err := c.BodyParser(record); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	setOwner(record, middleware.UserID(c))

	if err := h.crud.Create(c.Context(), h.entity, record); err != nil {
		return response.InternalServerError(c, "Failed to create record")
	}
	return response.Created(c, "Record created", record)
}

// AddBulk handles bulk record creation
func (h *EntityHandler) AddBulk(c *fiber.Ctx) error {
	slicePtr := h.newSlice()
	if err := c.BodyParser(slicePtr); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	slice := reflect.ValueOf(slicePtr).Elem()
	if slice.Len() == 0 {
		return response.BadRequest(c, "No records supplied")
	}

	userID := middleware.UserID(c)
	for i := 0; i < slice.Len(); i++ {
		record := slice.Index(i).Addr().Interface()
		setOwner(record, userID)
		if err := h.crud.Create(c.Context(), h.entity, record); err != nil {
			return response.InternalServerError(c, "Failed to create records")
		}
	}
	return response.Created(c, "Records created", slicePtr)
}

// List handles filtered, paginated listing
func (h *EntityHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	out := h.newSlice()

	filter, err := h.filterFromBody(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	total, err := h.crud.List(c.Context(), h.entity, filter, params.Offset, params.Limit, out)
	if err != nil {
		return response.InternalServerError(c, "Failed to list records")
	}
	return response.Success(c, "", pagination.NewResponse(out, params, total))
}

// Get handles fetching one record by id
func (h *EntityHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid id")
	}

	cond := store.Cond(store.Eq{Field: "id", Value: uint(id)})
	if h.ownerScoped {
		cond = store.And{cond, store.Eq{Field: "added_by", Value: middleware.UserID(c)}}
	}

	record := h.newRecord()
	if err := h.crud.GetBy(c.Context(), h.entity, cond, record); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Record not found")
		}
		return response.InternalServerError(c, "Failed to fetch record")
	}
	return response.Success(c, "", record)
}

// Count handles filtered counting
func (h *EntityHandler) Count(c *fiber.Ctx) error {
	filter, err := h.filterFromBody(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	n, err := h.crud.Count(c.Context(), h.entity, filter)
	if err != nil {
		return response.InternalServerError(c, "Failed to count records")
	}
	return response.Success(c, "", fiber.Map{"count": n})
}

// Update handles full and partial updates of one record
func (h *EntityHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid id")
	}

	var patch store.Patch
	if err := c.BodyParser(&patch); err != nil || len(patch) == 0 {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.checkPatch(patch); err != nil {
		return response.BadRequest(c, err.Error())
	}

	if err := h.crud.Update(c.Context(), h.entity, uint(id), middleware.UserID(c), patch); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Record not found")
		}
		return response.InternalServerError(c, "Failed to update record")
	}

	record := h.newRecord()
	if err := h.crud.Get(c.Context(), h.entity, uint(id), record); err != nil {
		return response.InternalServerError(c, "Failed to fetch record")
	}
	return response.Success(c, "Record updated", record)
}

// UpdateBulk handles patching many records at once
func (h *EntityHandler) UpdateBulk(c *fiber.Ctx) error {
	var req struct {
		IDs  []uint      `json:"ids"`
		Data store.Patch `json:"data"`
	}
	if err := c.BodyParser(&req); err != nil || len(req.IDs) == 0 || len(req.Data) == 0 {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.checkPatch(req.Data); err != nil {
		return response.BadRequest(c, err.Error())
	}

	n, err := h.crud.UpdateMany(c.Context(), h.entity, store.InIDs("id", req.IDs), middleware.UserID(c), req.Data)
	if err != nil {
		return response.InternalServerError(c, "Failed to update records")
	}
	return response.Success(c, "Records updated", fiber.Map{"count": n})
}

// SoftDelete flags one record and its dependents deleted
func (h *EntityHandler) SoftDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid id")
	}

	result, err := h.crud.SoftDelete(c.Context(), h.entity, store.Eq{Field: "id", Value: uint(id)}, middleware.UserID(c))
	if err != nil {
		return response.InternalServerError(c, "Failed to delete record")
	}
	return response.Success(c, "Record deleted", result)
}

// SoftDeleteMany flags many records and their dependents deleted
func (h *EntityHandler) SoftDeleteMany(c *fiber.Ctx) error {
	var req idsRequest
	if err := c.BodyParser(&req); err != nil || len(req.IDs) == 0 {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.crud.SoftDelete(c.Context(), h.entity, store.InIDs("id", req.IDs), middleware.UserID(c))
	if err != nil {
		return response.InternalServerError(c, "Failed to delete records")
	}
	return response.Success(c, "Records deleted", result)
}

// Delete removes one record and its dependents
func (h *EntityHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid id")
	}

	result, err := h.crud.Delete(c.Context(), h.entity, store.Eq{Field: "id", Value: uint(id)})
	if err != nil {
		return response.InternalServerError(c, "Failed to delete record")
	}
	return response.Success(c, "Record deleted", result)
}

// DeleteMany removes many records and their dependents
func (h *EntityHandler) DeleteMany(c *fiber.Ctx) error {
	var req idsRequest
	if err := c.BodyParser(&req); err != nil || len(req.IDs) == 0 {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.crud.Delete(c.Context(), h.entity, store.InIDs("id", req.IDs))
	if err != nil {
		return response.InternalServerError(c, "Failed to delete records")
	}
	return response.Success(c, "Records deleted", result)
}
