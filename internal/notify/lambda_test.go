package notify_test

import (
	"context"
	"errors"
	"taskManager/internal/notify"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/lambda/lambdaiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLambda struct {
	lambdaiface.LambdaAPI

	inputs []*lambda.InvokeInput
	output *lambda.InvokeOutput
	err    error
}

func (f *fakeLambda) InvokeWithContext(_ aws.Context, in *lambda.InvokeInput, _ ...request.Option) (*lambda.InvokeOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	if f.output == nil {
		return &lambda.InvokeOutput{StatusCode: aws.Int64(202)}, nil
	}
	return f.output, nil
}

func TestLambdaNotifier_Notify(t *testing.T) {
	api := &fakeLambda{}
	n := notify.NewLambdaNotifierWithClient(api, "task-notifications")

	err := n.Notify(context.Background(), notify.Event{TaskID: 4, Action: notify.ActionCreated, Title: "Write tests"})
	require.NoError(t, err)

	require.Len(t, api.inputs, 1)
	in := api.inputs[0]
	assert.Equal(t, "task-notifications", aws.StringValue(in.FunctionName))
	assert.Equal(t, lambda.InvocationTypeEvent, aws.StringValue(in.InvocationType))
	assert.JSONEq(t, `{"task_id":4,"action":"created","title":"Write tests"}`, string(in.Payload))
}

func TestLambdaNotifier_NotifyError(t *testing.T) {
	api := &fakeLambda{err: errors.New("ResourceNotFoundException")}
	n := notify.NewLambdaNotifierWithClient(api, "missing")

	err := n.Notify(context.Background(), notify.Event{TaskID: 1})
	assert.ErrorContains(t, err, "вызов missing")
}

func TestLambdaNotifier_Probe(t *testing.T) {
	tests := []struct {
		name     string
		output   *lambda.InvokeOutput
		err      error
		expected string
		wantErr  string
	}{
		{
			name:     "json echo",
			output:   &lambda.InvokeOutput{Payload: []byte(`{"echo":{"ping":true}}`)},
			expected: `{"echo":{"ping":true}}`,
		},
		{
			name:     "plain text is quoted",
			output:   &lambda.InvokeOutput{Payload: []byte(`pong`)},
			expected: `"pong"`,
		},
		{
			name:     "empty payload",
			output:   &lambda.InvokeOutput{},
			expected: `""`,
		},
		{
			name: "function error",
			output: &lambda.InvokeOutput{
				FunctionError: aws.String("Unhandled"),
				Payload:       []byte(`{"errorMessage":"boom"}`),
			},
			wantErr: "Unhandled",
		},
		{
			name:    "transport error",
			err:     errors.New("connection refused"),
			wantErr: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeLambda{output: tt.output, err: tt.err}
			n := notify.NewLambdaNotifierWithClient(api, "fn")

			result, err := n.Probe(context.Background(), map[string]any{"ping": true})
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(result))
			assert.Equal(t, lambda.InvocationTypeRequestResponse, aws.StringValue(api.inputs[0].InvocationType))
		})
	}
}

func TestDisabled(t *testing.T) {
	var n notify.Notifier = notify.Disabled{}

	assert.False(t, n.Available())
	assert.Equal(t, "none", n.Name())
	assert.ErrorIs(t, n.Notify(context.Background(), notify.Event{}), notify.ErrUnavailable)

	_, err := n.Probe(context.Background(), nil)
	assert.ErrorIs(t, err, notify.ErrUnavailable)
}
