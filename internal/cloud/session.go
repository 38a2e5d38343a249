// Package cloud создаёт общую сессию AWS для клиентов Lambda и S3.
package cloud

import (
	"fmt"
	"taskManager/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
)

// NewSession берёт учётные данные из стандартной цепочки (env, ~/.aws, роль инстанса).
// Непустой endpoint нужен для localstack и S3-совместимых хранилищ.
func NewSession(cfg config.AWSConfig) (*session.Session, error) {
	awsCfg := aws.NewConfig().WithRegion(cfg.Region)
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint).WithS3ForcePathStyle(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("создание сессии aws: %w", err)
	}
	return sess, nil
}
