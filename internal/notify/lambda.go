package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/lambda/lambdaiface"
)

type LambdaNotifier struct {
	client       lambdaiface.LambdaAPI
	functionName string
}

func NewLambdaNotifier(sess client.ConfigProvider, functionName string) *LambdaNotifier {
	return NewLambdaNotifierWithClient(lambda.New(sess), functionName)
}

func NewLambdaNotifierWithClient(api lambdaiface.LambdaAPI, functionName string) *LambdaNotifier {
	return &LambdaNotifier{client: api, functionName: functionName}
}

// Notify вызывает функцию асинхронно (InvocationType=Event), ответ не читается
func (n *LambdaNotifier) Notify(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("сериализация события: %w", err)
	}

	_, err = n.client.InvokeWithContext(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(n.functionName),
		InvocationType: aws.String(lambda.InvocationTypeEvent),
		Payload:        payload,
	})
	if err != nil {
		return fmt.Errorf("вызов %s: %w", n.functionName, err)
	}
	return nil
}

func (n *LambdaNotifier) Probe(ctx context.Context, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("сериализация запроса: %w", err)
	}

	out, err := n.client.InvokeWithContext(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(n.functionName),
		InvocationType: aws.String(lambda.InvocationTypeRequestResponse),
		Payload:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("вызов %s: %w", n.functionName, err)
	}

	if out.FunctionError != nil {
		return nil, fmt.Errorf("функция %s вернула ошибку %s: %s",
			n.functionName, aws.StringValue(out.FunctionError), string(out.Payload))
	}

	if len(out.Payload) == 0 || !json.Valid(out.Payload) {
		quoted, _ := json.Marshal(string(out.Payload))
		return quoted, nil
	}
	return json.RawMessage(out.Payload), nil
}

func (n *LambdaNotifier) Available() bool { return true }

func (n *LambdaNotifier) Name() string { return "lambda" }
