package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseID(t *testing.T) {
	assert.NoError(t, CaseID("AUD-001"))
	assert.NoError(t, CaseID("a_b"))
	assert.NoError(t, CaseID("AB"))

	assert.Error(t, CaseID("A"))
	assert.Error(t, CaseID("-AUD"))
	assert.Error(t, CaseID("AUD 001"))
	assert.Error(t, CaseID(strings.Repeat("A", 33)))
}

func TestDepartment(t *testing.T) {
	for _, d := range Departments {
		assert.NoError(t, Department(d))
	}
	assert.Error(t, Department("Catering"))
	assert.Error(t, Department("audio"))
}

func TestTextChecks(t *testing.T) {
	assert.Error(t, RequiredText("Case type", "", 80))
	assert.Error(t, RequiredText("Case type", strings.Repeat("x", 81), 80))
	assert.NoError(t, RequiredText("Case type", "Amp rack", 80))

	assert.NoError(t, OptionalText("Notes", "", 400))
	assert.Error(t, OptionalText("Notes", strings.Repeat("x", 401), 400))
}
