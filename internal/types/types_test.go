package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCreateUserRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateUserRequest
		wantErr bool
	}{
		{
			name: "valid",
			req:  CreateUserRequest{Name: "Ada", Email: "ada@example.com", Password: "longenough"},
		},
		{
			name: "valid with role",
			req:  CreateUserRequest{Name: "Ada", Email: "ada@example.com", Password: "longenough", Role: RoleManager},
		},
		{
			name:    "bad email",
			req:     CreateUserRequest{Name: "Ada", Email: "not-an-email", Password: "longenough"},
			wantErr: true,
		},
		{
			name:    "short password",
			req:     CreateUserRequest{Name: "Ada", Email: "ada@example.com", Password: "short"},
			wantErr: true,
		},
		{
			name:    "unknown role",
			req:     CreateUserRequest{Name: "Ada", Email: "ada@example.com", Password: "longenough", Role: "superuser"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateObjectiveRequest_Validate(t *testing.T) {
	valid := CreateObjectiveRequest{Title: "Grow revenue", Type: "company"}
	assert.NoError(t, valid.Validate())

	missingTitle := CreateObjectiveRequest{Type: "company"}
	assert.Error(t, missingTitle.Validate())

	badType := CreateObjectiveRequest{Title: "Grow revenue", Type: "department"}
	assert.Error(t, badType.Validate())
}

func TestCreateKeyResultRequest_Validate(t *testing.T) {
	valid := CreateKeyResultRequest{Title: "ARR", MetricType: "currency", TargetValue: 1000000}
	assert.NoError(t, valid.Validate())

	badMetric := CreateKeyResultRequest{Title: "ARR", MetricType: "gauge"}
	assert.Error(t, badMetric.Validate())
}

func TestSubmitProgressRequest_Validate(t *testing.T) {
	valid := SubmitProgressRequest{Value: "65"}
	assert.NoError(t, valid.Validate())

	// the struct validator only requires presence; numeric checking is the
	// okr package's job
	nonNumeric := SubmitProgressRequest{Value: "abc"}
	assert.NoError(t, nonNumeric.Validate())

	empty := SubmitProgressRequest{}
	assert.Error(t, empty.Validate())
}

func TestCreateCompetencyRequest_Validate(t *testing.T) {
	valid := CreateCompetencyRequest{Name: "Go", Category: "engineering", ExpectedLevel: 3}
	assert.NoError(t, valid.Validate())

	levelTooHigh := CreateCompetencyRequest{Name: "Go", Category: "engineering", ExpectedLevel: 6}
	assert.Error(t, levelTooHigh.Validate())
}

func TestAssessSkillRequest_Validate(t *testing.T) {
	level := 4
	valid := AssessSkillRequest{CompetencyID: uuid.New(), SelfLevel: &level}
	assert.NoError(t, valid.Validate())

	zero := 0
	badLevel := AssessSkillRequest{CompetencyID: uuid.New(), SelfLevel: &zero}
	assert.Error(t, badLevel.Validate())
}

func TestAddResourceRequest_Validate(t *testing.T) {
	valid := AddResourceRequest{URL: "https://example.com/course", Kind: ResourceKindCourse}
	assert.NoError(t, valid.Validate())

	badURL := AddResourceRequest{URL: "not a url", Kind: ResourceKindArticle}
	assert.Error(t, badURL.Validate())

	badKind := AddResourceRequest{URL: "https://example.com", Kind: "podcast"}
	assert.Error(t, badKind.Validate())
}

func TestCreateAssignmentRuleRequest_Validate(t *testing.T) {
	valid := CreateAssignmentRuleRequest{
		PathID:      uuid.New(),
		Recurrence:  "0 9 * * 1",
		AssigneeIDs: []uuid.UUID{uuid.New()},
	}
	assert.NoError(t, valid.Validate())

	noAssignees := CreateAssignmentRuleRequest{PathID: uuid.New(), Recurrence: "0 9 * * 1"}
	assert.Error(t, noAssignees.Validate())
}

func TestUpdatePreferenceRequest_Validate(t *testing.T) {
	valid := UpdatePreferenceRequest{Kind: NotificationProgress, Enabled: true}
	assert.NoError(t, valid.Validate())

	badKind := UpdatePreferenceRequest{Kind: "carrier_pigeon"}
	assert.Error(t, badKind.Validate())
}
