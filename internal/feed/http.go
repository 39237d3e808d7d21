// Copyright (c) 2026 Editaliza. All rights reserved.

package feed

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/editaliza/editaliza/internal/platform/request"
	"github.com/editaliza/editaliza/internal/platform/respond"
	"github.com/editaliza/editaliza/internal/platform/validate"
	"github.com/editaliza/editaliza/pkg/pagination"
)

// Handler implements the feed JSON endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the feed endpoints. The caller is
// expected to mount it behind authentication.
//
// # Endpoints
//   - GET /editals   : paginated, ?status= filter
//   - GET /proposers
//   - GET /users     : public profiles
//   - GET /tags
//   - GET /comments  : ?edital_id= filter
//   - GET /data      : every listing in one payload
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/editals", handler.listEditals)
	router.Get("/proposers", handler.listProposers)
	router.Get("/users", handler.listProfiles)
	router.Get("/tags", handler.listTags)
	router.Get("/comments", handler.listComments)
	router.Get("/data", handler.data)

	return router
}

func (handler *Handler) listEditals(writer http.ResponseWriter, request *http.Request) {
	status := EditalStatus(requestutil.Query(request, "status"))
	if status != "" && !status.Valid() {
		allowed := make([]string, len(Statuses))
		for i, s := range Statuses {
			allowed[i] = string(s)
		}
		respond.Error(writer, request, (&validate.Validator{}).OneOf("status", string(status), allowed...).Err())
		return
	}

	editals, meta, err := handler.service.Editals(request.Context(), status, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, editals, meta)
}

func (handler *Handler) listProposers(writer http.ResponseWriter, request *http.Request) {
	proposers, err := handler.service.Proposers(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, proposers)
}

func (handler *Handler) listProfiles(writer http.ResponseWriter, request *http.Request) {
	profiles, err := handler.service.Profiles(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profiles)
}

func (handler *Handler) listTags(writer http.ResponseWriter, request *http.Request) {
	tags, err := handler.service.Tags(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tags)
}

func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	var filter CommentFilter
	if raw := requestutil.Query(request, "edital_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respond.Error(writer, request, (&validate.Validator{}).Custom("edital_id", true, "Must be a positive integer").Err())
			return
		}
		filter.EditalID = &id
	}

	comments, err := handler.service.Comments(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comments)
}

// data answers with the bare aggregate, not the {data} envelope; the feed
// page reads its six keys at the top level.
func (handler *Handler) data(writer http.ResponseWriter, request *http.Request) {
	data, err := handler.service.Data(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.JSON(writer, http.StatusOK, data)
}
