package handlers

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/celsoprodesp/Antigravity/internal/entities"
	"github.com/celsoprodesp/Antigravity/internal/repositories"
	"github.com/celsoprodesp/Antigravity/internal/services/access"
)

// AccessHandler serves AccessService.
//
// Request fields:
//
//	Evaluate         {profile_id, role?, view}
//	ListPermissions  {profile_id}
//	SavePermissions  {profile_id, records: [{page_key, can_read, can_write, can_delete}]}
//	CheckNavigation  {profile_id, role?, from_view?, target_view, entity_id?}
type AccessHandler struct {
	records     *access.RecordStore
	evaluator   *access.Evaluator
	permissions repositories.PermissionRepository
	logger      logrus.FieldLogger
	recorder    access.Recorder

	// one save per profile at a time
	saveMu sync.Map // map[string]*sync.Mutex
}

// NewAccessHandler creates a new AccessHandler. recorder may be nil.
func NewAccessHandler(
	records *access.RecordStore,
	permissions repositories.PermissionRepository,
	logger logrus.FieldLogger,
	recorder access.Recorder,
) *AccessHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AccessHandler{
		records:     records,
		evaluator:   access.NewEvaluator(records, recorder),
		permissions: permissions,
		logger:      logger,
		recorder:    recorder,
	}
}

// Evaluate handles the Evaluate RPC
func (h *AccessHandler) Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	subject, err := subjectFromRequest(req)
	if err != nil {
		return nil, err
	}
	view, err := viewField(req, "view")
	if err != nil {
		return nil, err
	}

	d := h.evaluator.Decide(subject, view)
	return newStruct(map[string]interface{}{
		"view":       string(d.View),
		"page_key":   string(d.PageKey),
		"can_read":   d.Permission.CanRead,
		"can_write":  d.Permission.CanWrite,
		"can_delete": d.Permission.CanDelete,
		"reason":     d.Reason.String(),
	})
}

// ListPermissions handles the ListPermissions RPC
func (h *AccessHandler) ListPermissions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	profileID := stringField(req, "profile_id")
	if profileID == "" {
		return nil, status.Error(codes.InvalidArgument, "profile_id is required")
	}

	records := h.records.ForProfile(profileID)
	return newStruct(map[string]interface{}{
		"profile_id": profileID,
		"records":    recordsToList(records),
	})
}

// SavePermissions handles the SavePermissions RPC.
// Pages not named in the request keep their current flags.
func (h *AccessHandler) SavePermissions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	profileID := stringField(req, "profile_id")
	if profileID == "" {
		return nil, status.Error(codes.InvalidArgument, "profile_id is required")
	}

	changes, err := permissionChanges(req)
	if err != nil {
		return nil, err
	}

	mu, _ := h.saveMu.LoadOrStore(profileID, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	defer mu.(*sync.Mutex).Unlock()

	// changes are staged apart from the shared store until the batch is persisted
	staged := access.NewRecordStore(h.permissions)
	staged.ReplaceProfile(profileID, h.records.ForProfile(profileID))

	editor := access.NewEditor(staged, h.permissions, h.logger, h.recorder)
	editor.SelectProfile(profileID)
	for _, c := range changes {
		if _, err := editor.SetPage(c.key, c.perm); err != nil {
			return nil, toStatus(err)
		}
	}
	if err := editor.Save(ctx, profileID); err != nil {
		return nil, toStatus(err)
	}

	saved := staged.ForProfile(profileID)
	h.records.ReplaceProfile(profileID, saved)

	return newStruct(map[string]interface{}{
		"profile_id": profileID,
		"records":    recordsToList(saved),
	})
}

// CheckNavigation handles the CheckNavigation RPC. A denial is a normal response, not an error.
func (h *AccessHandler) CheckNavigation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	subject, err := subjectFromRequest(req)
	if err != nil {
		return nil, err
	}
	target, err := viewField(req, "target_view")
	if err != nil {
		return nil, err
	}

	from := entities.ViewDashboard
	if stringField(req, "from_view") != "" {
		if from, err = viewField(req, "from_view"); err != nil {
			return nil, err
		}
	}

	opts := []access.GuardOption{access.StartingAt(from), access.WithGuardLogger(h.logger)}
	if h.recorder != nil {
		opts = append(opts, access.WithGuardRecorder(h.recorder))
	}
	guard := access.NewGuard(h.evaluator, subject, opts...)

	resp := map[string]interface{}{"allowed": true}
	if err := guard.Navigate(target, stringField(req, "entity_id")); err != nil {
		if !errors.Is(err, access.ErrAccessDenied) {
			return nil, toStatus(err)
		}
		resp["allowed"] = false
		resp["message"] = err.Error()
	}
	resp["current_view"] = string(guard.Current())
	resp["previous_view"] = string(guard.Previous())
	resp["selected_entity"] = guard.SelectedEntity()

	p := guard.Permission()
	resp["can_read"] = p.CanRead
	resp["can_write"] = p.CanWrite
	resp["can_delete"] = p.CanDelete
	return newStruct(resp)
}

// toStatus maps domain errors to gRPC status errors
func toStatus(err error) error {
	switch {
	case errors.Is(err, access.ErrAccessDenied):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, access.ErrAdministratorProfile):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, access.ErrNoProfileSelected):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, access.ErrRecordNotFound), errors.Is(err, repositories.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, repositories.ErrConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, access.ErrPersistence):
		return status.Errorf(codes.Unavailable, "%v", err)
	default:
		return status.Errorf(codes.Internal, "%v", err)
	}
}
