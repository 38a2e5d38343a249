package dto_test

import (
	"encoding/json"
	"taskManager/internal/handlers/dto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateTaskRequest_DueDate(t *testing.T) {
	due := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name      string
		body      string
		wantClear bool
		wantDue   *time.Time
	}{
		{name: "absent keeps due date", body: `{"completed": true}`},
		{name: "null clears due date", body: `{"due_date": null}`, wantClear: true},
		{name: "value sets due date", body: `{"due_date": "2030-01-02T03:04:05Z"}`, wantDue: &due},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var request dto.UpdateTaskRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &request))

			patch := request.ToPatch()
			assert.Equal(t, tt.wantClear, patch.ClearDueDate)
			if tt.wantDue == nil {
				assert.Nil(t, patch.DueDate)
			} else if assert.NotNil(t, patch.DueDate) {
				assert.True(t, tt.wantDue.Equal(*patch.DueDate))
			}
		})
	}
}

func TestUpdateTaskRequest_BadDueDate(t *testing.T) {
	var request dto.UpdateTaskRequest
	assert.Error(t, json.Unmarshal([]byte(`{"due_date": "tomorrow"}`), &request))
}
