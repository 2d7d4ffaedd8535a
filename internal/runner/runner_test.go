package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bowtie/internal/protocol"
	"github.com/roach88/bowtie/internal/result"
	"github.com/roach88/bowtie/internal/schema"
	"github.com/roach88/bowtie/internal/testcase"
	"github.com/roach88/bowtie/internal/testutil"
)

const (
	startReply   = `{"version": 1, "implementation": {"name": "fake", "language": "go"}}`
	dialectReply = `{"ok": true}`
)

func codec(t *testing.T) protocol.Codec {
	t.Helper()
	c, err := schema.NewCodec(protocol.WebScheme{})
	require.NoError(t, err)
	return c
}

func twoTests() testcase.TestCase {
	return testcase.New("two", map[string]any{"type": "integer"}, []testcase.Test{
		{Description: "int", Instance: 1, Valid: result.Valid},
		{Description: "str", Instance: "a", Valid: result.Valid},
	})
}

// started returns a runner whose handshake has already been scripted.
func started(t *testing.T, replies []testutil.Reply, opts ...Option) (*Runner, *testutil.ScriptedTransport) {
	t.Helper()
	script := append([]testutil.Reply{testutil.Respond(startReply), testutil.Respond(dialectReply)}, replies...)
	transport := testutil.NewScriptedTransport(script...)
	r, err := Start(context.Background(), transport, codec(t), testcase.Draft202012, opts...)
	require.NoError(t, err)
	return r, transport
}

func await(t *testing.T, f *result.Future) result.CaseOutcome {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	outcome, err := f.Await(ctx)
	require.NoError(t, err)
	return outcome
}

func TestStart_Handshake(t *testing.T) {
	r, transport := started(t, nil)

	assert.Equal(t, "go-fake", r.ID())
	assert.Equal(t, testcase.Draft202012, r.Dialect())
	assert.Equal(t, 1, r.Implementation().Version)
	assert.Equal(t, []string{"start", "dialect"}, transport.Commands())
}

func TestStart_Failures(t *testing.T) {
	tests := []struct {
		name    string
		replies []testutil.Reply
		check   func(t *testing.T, err error)
	}{
		{
			name:    "version mismatch",
			replies: []testutil.Reply{testutil.Respond(`{"version": 2, "implementation": {"name": "x"}}`)},
			check: func(t *testing.T, err error) {
				assert.True(t, protocol.IsFatal(err))
				assert.True(t, protocol.IsVersionMismatch(err))
			},
		},
		{
			name:    "not ready",
			replies: []testutil.Reply{testutil.Respond(`{"version": 1, "ready": false, "implementation": {"name": "x"}}`)},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, protocol.ErrImplementationNotReady)
			},
		},
		{
			name:    "invalid start response",
			replies: []testutil.Reply{testutil.Respond(`{"version": 1}`)},
			check: func(t *testing.T, err error) {
				assert.True(t, protocol.IsProtocolError(err))
			},
		},
		{
			name:    "closed before start",
			replies: nil,
			check: func(t *testing.T, err error) {
				var se *SetupError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, PhaseStart, se.Phase)
			},
		},
		{
			name: "dialect refused",
			replies: []testutil.Reply{
				testutil.Respond(startReply),
				testutil.Respond(`{"ok": false}`),
			},
			check: func(t *testing.T, err error) {
				assert.True(t, IsDialectRefused(err))
			},
		},
		{
			name: "dialect transport error",
			replies: []testutil.Reply{
				testutil.Respond(startReply),
				testutil.Fail(errors.New("broken pipe")),
			},
			check: func(t *testing.T, err error) {
				var se *SetupError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, PhaseDialect, se.Phase)
				assert.Contains(t, err.Error(), "broken pipe")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := testutil.NewScriptedTransport(tt.replies...)
			_, err := Start(context.Background(), transport, codec(t), testcase.Draft202012)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestStart_UndeclaredDialectIsNotSent(t *testing.T) {
	transport := testutil.NewScriptedTransport(testutil.Respond(
		`{"version": 1, "implementation": {"name": "old", "dialects": ["http://json-schema.org/draft-07/schema#"]}}`,
	))
	_, err := Start(context.Background(), transport, codec(t), testcase.Draft202012)

	var de *DialectRefusedError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "old", de.Implementation)
	assert.Equal(t, []string{"start"}, transport.Commands())
}

func TestStart_Timeout(t *testing.T) {
	transport := testutil.NewScriptedTransport(testutil.Hang())
	_, err := Start(context.Background(), transport, codec(t), testcase.Draft202012,
		WithStartTimeout(20*time.Millisecond))

	assert.True(t, IsSetupError(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunValidation_Results(t *testing.T) {
	r, transport := started(t, []testutil.Reply{
		testutil.Respond(`{"seq": 1, "results": [{"valid": true}, {"valid": false}]}`),
	})

	outcome := await(t, twoTests().Run(context.Background(), 1, r))

	got, ok := outcome.(result.CaseResult)
	require.True(t, ok, "got %T", outcome)
	assert.Equal(t, "go-fake", got.Implementation)
	assert.True(t, got.Failed())
	assert.Equal(t, result.Unsuccessful{Failed: 1}, got.Unsuccessful())

	sent := transport.Sent()
	require.Len(t, sent, 3)
	testutil.AssertGoldenBytes(t, "run_request", sent[2])
}

func TestRunValidation_Downgrades(t *testing.T) {
	tests := []struct {
		name    string
		replies []testutil.Reply
		want    result.CaseOutcome
	}{
		{
			name:    "closed stream",
			replies: nil,
			want:    result.NoResponse("go-fake", 1, []result.Validity{result.Valid, result.Valid}),
		},
		{
			name:    "empty line",
			replies: []testutil.Reply{testutil.Respond("")},
			want:    result.NoResponse("go-fake", 1, []result.Validity{result.Valid, result.Valid}),
		},
		{
			name:    "caught error",
			replies: []testutil.Reply{testutil.Respond(`{"seq": 1, "errored": true, "context": {"message": "boom"}}`)},
			want: result.Errored("go-fake", 1, []result.Validity{result.Valid, result.Valid},
				map[string]any{"message": "boom"}),
		},
		{
			name:    "skipped",
			replies: []testutil.Reply{testutil.Respond(`{"seq": 1, "skipped": true, "message": "unsupported"}`)},
			want: result.CaseSkipped{
				Case:    result.Case{Implementation: "go-fake", Seq: 1, Expected: []result.Validity{result.Valid, result.Valid}},
				Message: "unsupported",
			},
		},
		{
			name:    "wrong result count",
			replies: []testutil.Reply{testutil.Respond(`{"seq": 1, "results": [{"valid": true}]}`)},
			want: result.Uncaught("go-fake", 1, []result.Validity{result.Valid, result.Valid},
				map[string]any{"message": "expected 2 results, got 1"}),
		},
		{
			name:    "seq from the future",
			replies: []testutil.Reply{testutil.Respond(`{"seq": 9, "results": [{"valid": true}, {"valid": true}]}`)},
			want: result.Uncaught("go-fake", 1, []result.Validity{result.Valid, result.Valid},
				map[string]any{"message": "response seq 9 does not match request seq 1"}),
		},
		{
			name:    "transport error",
			replies: []testutil.Reply{testutil.Fail(errors.New("reset"))},
			want: result.Uncaught("go-fake", 1, []result.Validity{result.Valid, result.Valid},
				map[string]any{"message": "receiving run response: reset"}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := started(t, tt.replies)
			outcome := await(t, twoTests().Run(context.Background(), 1, r))
			assert.Empty(t, cmp.Diff(tt.want, outcome))
			assert.Len(t, outcome.Outcomes(), 2)
		})
	}
}

func TestRunValidation_MalformedResponse(t *testing.T) {
	r, _ := started(t, []testutil.Reply{testutil.Respond(`{"seq": 1, "results": [`)})

	outcome := await(t, twoTests().Run(context.Background(), 1, r))

	errored, ok := outcome.(result.CaseErrored)
	require.True(t, ok, "got %T", outcome)
	assert.False(t, errored.Caught)
	assert.Contains(t, errored.Reason(), "malformed JSON")
	assert.Equal(t, result.Unsuccessful{Errored: 2}, outcome.Unsuccessful())
}

func TestRunValidation_TimeoutThenStaleReply(t *testing.T) {
	r, _ := started(t, []testutil.Reply{
		testutil.Hang(),
		testutil.Respond(`{"seq": 1, "results": [{"valid": true}, {"valid": true}]}`),
		testutil.Respond(`{"seq": 2, "results": [{"valid": true}, {"valid": false}]}`),
	}, WithRunTimeout(20*time.Millisecond))

	first := await(t, twoTests().Run(context.Background(), 1, r))
	errored, ok := first.(result.CaseErrored)
	require.True(t, ok, "got %T", first)
	assert.Contains(t, errored.Reason(), "timed out")

	second := await(t, twoTests().Run(context.Background(), 2, r))
	got, ok := second.(result.CaseResult)
	require.True(t, ok, "got %T", second)
	assert.Equal(t, result.Seq(2), got.Seq)
}

func TestRunValidation_InvalidRequestIsHarnessDefect(t *testing.T) {
	r, _ := started(t, nil)
	run := protocol.Run{Seq: 1, Case: map[string]any{"schema": true, "tests": []any{}}}

	_, err := r.RunValidation(context.Background(), run, nil).Await(context.Background())

	var re *protocol.RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "run", re.Command)
}

func TestRunValidation_PreservesSubmissionOrder(t *testing.T) {
	fake := testutil.NewFakeImplementation("ordered", nil)
	r, err := Start(context.Background(), fake, codec(t), testcase.Draft202012)
	require.NoError(t, err)

	futures := make([]*result.Future, 10)
	for i := range futures {
		futures[i] = r.Submit(context.Background(), twoTests())
	}
	for i, f := range futures {
		outcome := await(t, f)
		assert.Equal(t, result.Seq(i+1), outcome.About().Seq)
		assert.False(t, outcome.Failed())
	}
	assert.Equal(t, 10, fake.Runs())
}

func TestStop(t *testing.T) {
	r, transport := started(t, nil)

	require.NoError(t, r.Stop(context.Background()))
	require.NoError(t, r.Stop(context.Background()))
	assert.Equal(t, []string{"start", "dialect", "stop"}, transport.Commands())
	assert.True(t, transport.Closed())

	_, err := twoTests().Run(context.Background(), 1, r).Await(context.Background())
	assert.ErrorIs(t, err, ErrStopped)
}

func TestStop_WaitsForQueuedCases(t *testing.T) {
	fake := testutil.NewFakeImplementation("slow", nil)
	r, err := Start(context.Background(), fake, codec(t), testcase.Draft202012)
	require.NoError(t, err)

	future := r.Submit(context.Background(), twoTests())
	require.NoError(t, r.Stop(context.Background()))

	outcome := await(t, future)
	assert.IsType(t, result.CaseResult{}, outcome)
	assert.True(t, fake.Stopped())
}

func TestStop_CancelledBeforeQueueDrainsIsFinal(t *testing.T) {
	r, transport := started(t, []testutil.Reply{testutil.Hang()}, WithRunTimeout(time.Minute))

	runCtx, cancelRun := context.WithCancel(context.Background())
	future := twoTests().Run(runCtx, 1, r)

	stopCtx, cancelStop := context.WithCancel(context.Background())
	cancelStop()
	err := r.Stop(stopCtx)
	require.ErrorIs(t, err, context.Canceled)

	again := r.Stop(context.Background())
	require.Error(t, again, "a second Stop must not report success")
	assert.ErrorIs(t, again, context.Canceled)

	cancelRun()
	outcome := await(t, future)
	assert.IsType(t, result.CaseErrored{}, outcome)

	assert.NotContains(t, transport.Commands(), "stop")
	assert.False(t, transport.Closed())
}
