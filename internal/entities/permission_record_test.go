package entities

import "testing"

func TestPermissionRecord_Toggle(t *testing.T) {
	tests := []struct {
		name  string
		start Permission
		field PermissionField
		want  Permission
	}{
		{
			name:  "read on",
			start: Permission{},
			field: FieldRead,
			want:  Permission{CanRead: true},
		},
		{
			name:  "read off revokes write and delete",
			start: Permission{CanRead: true, CanWrite: true, CanDelete: true},
			field: FieldRead,
			want:  Permission{},
		},
		{
			name:  "write on grants read",
			start: Permission{},
			field: FieldWrite,
			want:  Permission{CanRead: true, CanWrite: true},
		},
		{
			name:  "delete on grants read",
			start: Permission{},
			field: FieldDelete,
			want:  Permission{CanRead: true, CanDelete: true},
		},
		{
			name:  "write off keeps read",
			start: Permission{CanRead: true, CanWrite: true},
			field: FieldWrite,
			want:  Permission{CanRead: true},
		},
		{
			name:  "delete off keeps write",
			start: Permission{CanRead: true, CanWrite: true, CanDelete: true},
			field: FieldDelete,
			want:  Permission{CanRead: true, CanWrite: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &PermissionRecord{ID: PersistedID("1"), PageKey: PageFinance, ProfileID: "2", Permission: tt.start}
			if err := r.Toggle(tt.field); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Permission != tt.want {
				t.Errorf("Toggle(%s) = %v, want %v", tt.field, r.Permission, tt.want)
			}
			if !r.Consistent() {
				t.Errorf("record inconsistent after toggle: %v", r.Permission)
			}
		})
	}
}

func TestPermissionRecord_ToggleReadTwice(t *testing.T) {
	for _, start := range []Permission{{}, {CanRead: true}} {
		r := &PermissionRecord{ID: PersistedID("1"), Permission: start}
		_ = r.Toggle(FieldRead)
		_ = r.Toggle(FieldRead)
		if r.Permission != start {
			t.Errorf("double read toggle from %v ended at %v", start, r.Permission)
		}
	}
}

func TestPermissionRecord_ToggleUnknownField(t *testing.T) {
	r := &PermissionRecord{ID: PersistedID("1")}
	if err := r.Toggle("canShare"); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestPermissionRecord_Normalize(t *testing.T) {
	r := &PermissionRecord{Permission: Permission{CanDelete: true}}
	r.Normalize()
	if !r.CanRead || !r.CanDelete || r.CanWrite {
		t.Errorf("Normalize() = %v, want r-d", r.Permission)
	}
}

func TestPermissionRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		record  PermissionRecord
		wantErr bool
	}{
		{"正常系: persisted", PermissionRecord{ID: PersistedID("a"), PageKey: PageClients, ProfileID: "2"}, false},
		{"正常系: pending", PermissionRecord{ID: PendingID(1), PageKey: PageClients, ProfileID: "2"}, false},
		{"異常系: missing id", PermissionRecord{PageKey: PageClients, ProfileID: "2"}, true},
		{"異常系: missing key", PermissionRecord{ID: PersistedID("a"), ProfileID: "2"}, true},
		{"異常系: missing profile", PermissionRecord{ID: PersistedID("a"), PageKey: PageClients}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecordID(t *testing.T) {
	if !IsPersisted(PersistedID("42")) {
		t.Error("PersistedID should be persisted")
	}
	if IsPersisted(PendingID(42)) {
		t.Error("PendingID should not be persisted")
	}
	if PendingID(7).String() == PersistedID("7").String() {
		t.Error("pending and persisted ids should render differently")
	}
}

func TestPermission_String(t *testing.T) {
	if got := (Permission{CanRead: true, CanWrite: true}).String(); got != "rw-" {
		t.Errorf("String() = %q, want rw-", got)
	}
	if got := Denied().String(); got != "---" {
		t.Errorf("String() = %q, want ---", got)
	}
}
