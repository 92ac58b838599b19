package mailservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplate(t *testing.T) {
	template := NewTemplate()
	data := notificationData{ContactReceivedEvent: testEvent, AdminName: "Owner"}

	testCases := []struct {
		name         string
		templateName string
		wantSubject  string
		wantBody     []string
		expectedErr  bool
	}{
		{
			name:         "notification",
			templateName: notificationTemplate,
			wantSubject:  "New contact message: Hello",
			wantBody:     []string{"Hi Owner", "Ada (ada@example.com)", "Nice blog."},
		},
		{
			name:         "auto reply",
			templateName: autoReplyTemplate,
			wantSubject:  "Thanks for getting in touch",
			wantBody:     []string{"Hi Ada", `"Hello"`},
		},
		{
			name:         "invalid template name",
			templateName: "invalid_template.html",
			expectedErr:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, p, h, err := template.ParseTemplate(tc.templateName, data)
			if tc.expectedErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantSubject, s.String())
			for _, want := range tc.wantBody {
				assert.Contains(t, p.String(), want)
			}
			assert.NotEmpty(t, h.String())
		})
	}
}

func TestParseTemplateEscapesHTML(t *testing.T) {
	event := testEvent
	event.Message = "<script>alert(1)</script>"

	_, _, h, err := NewTemplate().ParseTemplate(notificationTemplate, notificationData{ContactReceivedEvent: event})
	require.NoError(t, err)
	assert.NotContains(t, h.String(), "<script>")
	assert.Contains(t, h.String(), "&lt;script&gt;")
}
