package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/admirror/internal/schemas"
)

var validateTagsCmd = &cobra.Command{
	Use:   "validate-tags",
	Short: "Validate an exported tag file against its JSON schema",
	Long:  "Validate a JSON file of creative or video tags against the published taxonomy schema, reporting every field that fails.",
	RunE:  runValidateTags,
}

var (
	validateTagsFile string
	validateTagsKind string
)

func init() {
	validateTagsCmd.Flags().StringVarP(&validateTagsFile, "file", "f", "", "Path to tag JSON file (required)")
	validateTagsCmd.Flags().StringVar(&validateTagsKind, "kind", "creative", "Tag kind: creative or video")
	_ = validateTagsCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(validateTagsCmd)
}

func runValidateTags(_ *cobra.Command, _ []string) error {
	var schemaRel string
	switch validateTagsKind {
	case "creative":
		schemaRel = schemas.CreativeTagsSchema
	case "video":
		schemaRel = schemas.VideoTagsSchema
	default:
		return fmt.Errorf("unknown tag kind: %q (expected creative or video)", validateTagsKind)
	}

	schemaPath := schemas.ResolveSchemaPath(schemaRel)
	if schemaPath == "" {
		return fmt.Errorf("schema file not found: %s", schemaRel)
	}

	if err := schemas.ValidateFile(schemaPath, validateTagsFile); err != nil {
		var validationErr *schemas.ValidationError
		var schemaLoadErr *schemas.SchemaLoadError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("tag file does not validate against schema: %w", err)
		} else if errors.As(err, &schemaLoadErr) {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate tag file (schema loading failed): %v\n", err)
			return nil
		}
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Tag file is valid: %s\n", validateTagsFile)

	return nil
}
