package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	tenderrors "github.com/tenderfit/tenderctl/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})

	return validateInst
}

// ValidateConfig performs schema and cross-field validation on the configuration.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return tenderrors.NewValidationError("config", "configuration is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	if strings.TrimSpace(cfg.Scan.Keywords) == "" {
		return tenderrors.NewValidationError("scan.keywords", "keywords must not be blank", nil)
	}

	if cfg.Scan.LLMFilter && cfg.Scan.LLMBatchSize > cfg.Scan.LLMMaxCandidates {
		return tenderrors.NewValidationError(
			"scan.llm_batch_size",
			fmt.Sprintf("batch size %d exceeds llm_max_candidates %d", cfg.Scan.LLMBatchSize, cfg.Scan.LLMMaxCandidates),
			nil,
		)
	}

	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if ok := asValidationErrors(err, &verrs); ok && len(verrs) > 0 {
		first := verrs[0]
		field := strings.ToLower(first.Namespace())
		field = strings.TrimPrefix(field, "config.")
		return tenderrors.NewValidationError(field, fmt.Sprintf("failed %q constraint", first.Tag()), err)
	}

	return tenderrors.NewValidationError("config", err.Error(), err)
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	*target = verrs
	return true
}
