package handlers

import (
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/celsoprodesp/Antigravity/internal/entities"
)

func stringField(s *structpb.Struct, name string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(s.GetFields()[name].GetStringValue())
}

func boolField(s *structpb.Struct, name string) bool {
	if s == nil {
		return false
	}
	return s.GetFields()[name].GetBoolValue()
}

func viewField(s *structpb.Struct, name string) (entities.View, error) {
	raw := stringField(s, name)
	if raw == "" {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	view, err := entities.ParseView(strings.ToUpper(raw))
	if err != nil {
		return "", status.Errorf(codes.InvalidArgument, "invalid %s: %v", name, err)
	}
	return view, nil
}

// subjectFromRequest reads profile_id and the optional role marker
func subjectFromRequest(s *structpb.Struct) (entities.Subject, error) {
	profileID := stringField(s, "profile_id")
	if profileID == "" {
		return entities.Subject{}, status.Error(codes.InvalidArgument, "profile_id is required")
	}
	u := entities.User{ProfileID: profileID, Role: stringField(s, "role")}
	return u.Subject(), nil
}

type permissionChange struct {
	key  entities.PageKey
	perm entities.Permission
}

func permissionChanges(s *structpb.Struct) ([]permissionChange, error) {
	list := s.GetFields()["records"].GetListValue()
	if list == nil {
		return nil, status.Error(codes.InvalidArgument, "records is required")
	}

	changes := make([]permissionChange, 0, len(list.GetValues()))
	seen := make(map[entities.PageKey]bool)
	for i, v := range list.GetValues() {
		rec := v.GetStructValue()
		if rec == nil {
			return nil, status.Errorf(codes.InvalidArgument, "records[%d] must be an object", i)
		}
		key := entities.PageKey(strings.ToUpper(stringField(rec, "page_key")))
		if _, ok := entities.LookupPage(key); !ok {
			return nil, status.Errorf(codes.InvalidArgument, "records[%d]: unknown page_key %q", i, key)
		}
		if seen[key] {
			return nil, status.Errorf(codes.InvalidArgument, "records[%d]: duplicate page_key %q", i, key)
		}
		seen[key] = true
		changes = append(changes, permissionChange{
			key: key,
			perm: entities.Permission{
				CanRead:   boolField(rec, "can_read"),
				CanWrite:  boolField(rec, "can_write"),
				CanDelete: boolField(rec, "can_delete"),
			},
		})
	}
	return changes, nil
}

func recordsToList(records []*entities.PermissionRecord) []interface{} {
	out := make([]interface{}, 0, len(records))
	for _, rec := range records {
		out = append(out, map[string]interface{}{
			"id":         rec.ID.String(),
			"persisted":  entities.IsPersisted(rec.ID),
			"page_key":   string(rec.PageKey),
			"page_name":  rec.PageName,
			"can_read":   rec.CanRead,
			"can_write":  rec.CanWrite,
			"can_delete": rec.CanDelete,
		})
	}
	return out
}

func newStruct(m map[string]interface{}) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to build response: %v", err)
	}
	return s, nil
}
