package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"contacts-data/internal/domain"
	"contacts-data/internal/service"

	"go.uber.org/zap"
)

const contactsBasePath = "/api/v1/contacts"

// ContactHandler 联系人 CRUD / 搜索 / 生日窗口 Handler
type ContactHandler struct {
	contacts *service.ContactService
	logger   *zap.Logger
}

// NewContactHandler 创建联系人 Handler
func NewContactHandler(contacts *service.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		contacts: contacts,
		logger:   logger,
	}
}

// ServeHTTP 实现 http.Handler 接口（路由分发）
func (h *ContactHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tail := strings.TrimPrefix(r.URL.Path, contactsBasePath)
	tail = strings.TrimPrefix(tail, "/")

	switch tail {
	case "":
		switch r.Method {
		case http.MethodGet:
			h.List(w, r)
		case http.MethodPost:
			h.Create(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case "search":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Search(w, r)
	case "birthdays":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.UpcomingBirthdays(w, r)
	case "export":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Export(w, r)
	default:
		id, err := strconv.ParseInt(tail, 10, 64)
		if err != nil || strings.Contains(tail, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.Get(w, r, id)
		case http.MethodPut, http.MethodPatch:
			h.Update(w, r, id)
		case http.MethodDelete:
			h.Delete(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

// writeError 错误统一映射：校验错误 400，其余 500
func (h *ContactHandler) writeError(w http.ResponseWriter, op string, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, Fail(ve.Error()))
		return
	}
	h.logger.Error(op+" failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
}

// List 分页列表
// GET /api/v1/contacts?skip=0&limit=20
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	skip := parseInt(r.URL.Query().Get("skip"), 0)
	limit := parseInt(r.URL.Query().Get("limit"), 20)
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 20
	}

	contacts, err := h.contacts.ListContacts(r.Context(), skip, limit)
	if err != nil {
		h.writeError(w, "list contacts", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(contacts))
}

// Get 点查
// GET /api/v1/contacts/{id}
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request, id int64) {
	contact, err := h.contacts.GetContact(r.Context(), id)
	if err != nil {
		h.writeError(w, "get contact", err)
		return
	}
	if contact == nil {
		writeJSON(w, http.StatusNotFound, Fail("contact not found"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(contact))
}

// Create 新建联系人
// POST /api/v1/contacts
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload domain.ContactCreate
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	created, err := h.contacts.CreateContact(r.Context(), payload)
	if err != nil {
		h.writeError(w, "create contact", err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(created))
}

// Update 部分更新
// PUT /api/v1/contacts/{id}
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request, id int64) {
	var patch domain.ContactUpdate
	if err := readBodyJSON(r, 1<<20, &patch); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	updated, err := h.contacts.UpdateContact(r.Context(), id, patch)
	if err != nil {
		h.writeError(w, "update contact", err)
		return
	}
	if updated == nil {
		writeJSON(w, http.StatusNotFound, Fail("contact not found"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(updated))
}

// Delete 硬删除（幂等：重复删除返回 404，不报错）
// DELETE /api/v1/contacts/{id}
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request, id int64) {
	deleted, err := h.contacts.DeleteContact(r.Context(), id)
	if err != nil {
		h.writeError(w, "delete contact", err)
		return
	}
	if deleted == nil {
		writeJSON(w, http.StatusNotFound, Fail("contact not found"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(deleted))
}

// Search 子串搜索
// GET /api/v1/contacts/search?q=jane&skip=0&limit=20
func (h *ContactHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	skip := parseInt(r.URL.Query().Get("skip"), 0)
	limit := parseInt(r.URL.Query().Get("limit"), 20)
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 20
	}

	contacts, err := h.contacts.SearchContacts(r.Context(), q, skip, limit)
	if err != nil {
		h.writeError(w, "search contacts", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(contacts))
}

// UpcomingBirthdays 生日窗口查询
// GET /api/v1/contacts/birthdays?days=7
func (h *ContactHandler) UpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	days := parseInt(r.URL.Query().Get("days"), 7)
	if days < 0 {
		writeJSON(w, http.StatusBadRequest, Fail("days must be non-negative"))
		return
	}

	contacts, err := h.contacts.UpcomingBirthdays(r.Context(), days)
	if err != nil {
		h.writeError(w, "upcoming birthdays", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(contacts))
}

// Export 导出全部联系人为 Excel
// GET /api/v1/contacts/export
func (h *ContactHandler) Export(w http.ResponseWriter, r *http.Request) {
	// 分页拉全量（每页 500，直到短页）
	const pageSize = 500
	all := []domain.Contact{}
	for skip := 0; ; skip += pageSize {
		page, err := h.contacts.ListContacts(r.Context(), skip, pageSize)
		if err != nil {
			h.writeError(w, "export contacts", err)
			return
		}
		all = append(all, page...)
		if len(page) < pageSize {
			break
		}
	}

	data, err := GenerateContactsExport(all)
	if err != nil {
		h.logger.Error("excel generation failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to generate export"))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="contacts.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
