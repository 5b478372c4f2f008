package runner

import (
	"errors"
	"fmt"
	"os"
	"time"

	v1 "github.com/voicepack/voicepack/apis/v1"
)

// iso8601Basic is a URL-safe timestamp format without colons, usable in
// object keys and file names.
const iso8601Basic = "20060102T150405Z"

// BuildVariables creates the variables map for ${VAR} expansion. It includes
// built-in variables and reads allowed environment variables. If an allowed
// variable is not set, an error is returned.
func BuildVariables(job v1.VoicePack, allowedEnv []string) (map[string]string, error) {
	date := time.Now().UTC()
	variables := map[string]string{
		"PACK_NAME":         job.Metadata.Name,
		"PACK_DATE_ISO8601": date.Format(iso8601Basic),
		"PACK_DATE_RFC3339": date.Format(time.RFC3339),
	}

	var errs error
	for _, envName := range allowedEnv {
		val, ok := os.LookupEnv(envName)
		if !ok {
			errs = errors.Join(errs, fmt.Errorf("environment variable %q is not set", envName))
			continue
		}
		variables[envName] = val
	}

	if errs != nil {
		return nil, errs
	}

	return variables, nil
}

// Expand substitutes ${VAR} references in value. References to variables
// outside the map are errors, never silently dropped.
func Expand(value string, variables map[string]string) (string, error) {
	var errs error

	result := os.Expand(value, func(key string) string {
		if val, ok := variables[key]; ok {
			return val
		}
		errs = errors.Join(errs, fmt.Errorf("variable %q is not in the allowed list", key))
		return ""
	})

	if errs != nil {
		return "", errs
	}

	return result, nil
}

// ExpandJob expands the job fields that accept ${VAR} references:
// the archive name, the upload key prefix, and the synthesis api key.
func ExpandJob(job *v1.VoicePack, variables map[string]string) error {
	if spec := job.Spec.Archive; spec != nil && spec.Name != "" {
		expanded, err := Expand(spec.Name, variables)
		if err != nil {
			return fmt.Errorf("failed to expand archive name: %w", err)
		}
		spec.Name = expanded
	}

	if spec := job.Spec.Upload; spec != nil && spec.S3 != nil && spec.S3.Prefix != nil {
		expanded, err := Expand(*spec.S3.Prefix, variables)
		if err != nil {
			return fmt.Errorf("failed to expand upload prefix: %w", err)
		}
		spec.S3.Prefix = &expanded
	}

	if spec := job.Spec.Synthesis; spec != nil && spec.APIKey != "" {
		expanded, err := Expand(spec.APIKey, variables)
		if err != nil {
			return fmt.Errorf("failed to expand synthesis api key: %w", err)
		}
		spec.APIKey = expanded
	}

	return nil
}
