package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelector(t *testing.T) {
	tests := []struct {
		name string
		sel  Selector
		want string
	}{
		{"xpath", XPath("//div[@class='clock_in'][1]/button"), "//div[@class='clock_in'][1]/button"},
		{"id with brackets", ID("mfid_user[email]"), `[id="mfid_user[email]"]`},
		{"compound class", Class("custom-counter-input attendance-input-field-small"),
			".custom-counter-input.attendance-input-field-small"},
		{"single class", Class("attendance-button-mfid"), ".attendance-button-mfid"},
		{"name", Name("workflow_request[comment]"), `[name="workflow_request[comment]"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sel.String())
		})
	}
}

func TestSelector_LocateJS(t *testing.T) {
	assert.Equal(t,
		`document.querySelector("[id=\"submitto\"]")`,
		ID("submitto").locateJS())
	assert.Contains(t, XPath("//input[@name='commit']").locateJS(), `document.evaluate("//input[@name='commit']"`)
}
