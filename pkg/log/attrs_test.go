package log_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowgrid/engine/pkg/log"
)

func TestErrorAttr(t *testing.T) {
	attr := log.Error(errors.New("boom"))
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, "boom", attr.Value.String())
}

func TestErrorAttrNil(t *testing.T) {
	attr := log.Error(nil)
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, "", attr.Value.String())
}

func TestTypedAttrs(t *testing.T) {
	assert.Equal(t, "workflow_id", log.WorkflowID("wf-1").Key)
	assert.Equal(t, "wf-1", log.WorkflowID("wf-1").Value.String())

	assert.Equal(t, "execution_id", log.ExecutionID("ex-1").Key)
	assert.Equal(t, "node_id", log.NodeID("n1").Key)
	assert.Equal(t, "status", log.Status("running").Key)
	assert.Equal(t, "trigger", log.Trigger("manual").Key)
	assert.Equal(t, "boom", log.ErrorString("boom").Value.String())
}
