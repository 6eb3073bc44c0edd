// internal/workers/conversation/find-overlap/handler_test.go
package findoverlap

import (
	"context"
	"sync"
	"testing"

	"conversation-starters/internal/common/logger"
	"conversation-starters/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

func TestFindOverlap(t *testing.T) {
	tests := []struct {
		name   string
		yours  []string
		theirs []string
		want   []string
	}{
		{
			name:   "abbreviation is not a substring",
			yours:  []string{"AI", "Coffee"},
			theirs: []string{"artificial intelligence", "coffee brewing"},
			want:   []string{"Coffee"},
		},
		{
			name:   "theirs contained in yours",
			yours:  []string{"specialty coffee roasting"},
			theirs: []string{"Coffee"},
			want:   []string{"specialty coffee roasting"},
		},
		{
			name:   "order follows yours and duplicates kept",
			yours:  []string{"Go", "rust", "go"},
			theirs: []string{"Rust", "golang"},
			want:   []string{"Go", "rust", "go"},
		},
		{
			name:   "no overlap",
			yours:  []string{"chess"},
			theirs: []string{"surfing"},
			want:   []string{},
		},
		{
			name:   "empty theirs",
			yours:  []string{"chess"},
			theirs: nil,
			want:   []string{},
		},
		{
			name:   "empty yours",
			yours:  nil,
			theirs: []string{"chess"},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindOverlap(tt.yours, tt.theirs))
		})
	}
}

func TestFindOverlap_NotSymmetric(t *testing.T) {
	a := []string{"coffee", "hiking"}
	b := []string{"Coffee brewing", "Coffee tasting"}

	assert.Equal(t, []string{"coffee"}, FindOverlap(a, b))
	assert.Equal(t, []string{"Coffee brewing", "Coffee tasting"}, FindOverlap(b, a))
}

func TestHandler_Execute(t *testing.T) {
	h := NewHandler(nil, logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), &Input{
		YourInterests:  []string{"AI", "Coffee"},
		TheirInterests: []string{"artificial intelligence", "coffee brewing"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Coffee"}, out.CommonInterests)
}

// gatewayStub records the job commands sent by a handler.
type gatewayStub struct {
	pb.GatewayClient

	mu        sync.Mutex
	completed []*pb.CompleteJobRequest
	failed    []*pb.FailJobRequest
	thrown    []*pb.ThrowErrorRequest
}

func (g *gatewayStub) CompleteJob(_ context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.completed = append(g.completed, in)
	return &pb.CompleteJobResponse{}, nil
}

func (g *gatewayStub) FailJob(_ context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failed = append(g.failed, in)
	return &pb.FailJobResponse{}, nil
}

func (g *gatewayStub) ThrowError(_ context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.thrown = append(g.thrown, in)
	return &pb.ThrowErrorResponse{}, nil
}

type jobClientStub struct{ gw *gatewayStub }

func noRetry(context.Context, error) bool { return false }

func (c jobClientStub) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.gw, noRetry)
}

func (c jobClientStub) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.gw, noRetry)
}

func (c jobClientStub) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.gw, noRetry)
}

func newJob(variables string) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                42,
		Type:               TaskType,
		ProcessInstanceKey: 7,
		Retries:            3,
		Variables:          variables,
	}}
}

func TestHandler_Handle_CompletesJob(t *testing.T) {
	v, err := validation.NewDefault()
	require.NoError(t, err)
	gw := &gatewayStub{}
	h := NewHandler(v, logger.NewTestLogger(t))

	h.Handle(jobClientStub{gw: gw}, newJob(`{"your_interests":["AI","Coffee"],"their_interests":["artificial intelligence","coffee brewing"]}`))

	require.Len(t, gw.completed, 1)
	assert.Empty(t, gw.failed)
	assert.Empty(t, gw.thrown)
	assert.Equal(t, int64(42), gw.completed[0].GetJobKey())
	assert.JSONEq(t, `{"common_interests":["Coffee"]}`, gw.completed[0].GetVariables())
}

func TestHandler_Handle_InvalidInput(t *testing.T) {
	v, err := validation.NewDefault()
	require.NoError(t, err)

	tests := []struct {
		name      string
		variables string
	}{
		{name: "missing their_interests", variables: `{"your_interests":["AI"]}`},
		{name: "wrong type", variables: `{"your_interests":"AI","their_interests":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &gatewayStub{}
			h := NewHandler(v, logger.NewTestLogger(t))

			h.Handle(jobClientStub{gw: gw}, newJob(tt.variables))

			assert.Empty(t, gw.completed)
			require.Len(t, gw.thrown, 1)
			assert.Equal(t, "INVALID_REQUEST", gw.thrown[0].GetErrorCode())
		})
	}
}
