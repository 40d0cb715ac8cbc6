package sqlerr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/questions/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// generateErrorCode creates "<DOMAIN>_<ACTION>" codes from a driver error.
//
// DOMAIN comes from the referenced column for foreign keys (question_id ->
// QUESTION) and from the singularized table name otherwise.
//
//	question_likes + ForeignKeyViolation on question_id => QUESTION_NOT_FOUND
//	users + UniqueViolation                             => USER_ALREADY_EXISTS
func generateErrorCode(sqlErr *Error) string {
	domain := strings.ToUpper(strings.ReplaceAll(getEntityName(sqlErr.TableName, sqlErr.ColumnName), " ", "_"))
	if sqlErr.Code == ForeignKeyViolation {
		if column := columnFromConstraint(sqlErr.ConstraintName); column != "" {
			domain = strings.ToUpper(strings.TrimSuffix(column, "_id"))
		}
	}

	action := "ERROR"
	switch sqlErr.Code {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// formatMessage produces a readable message for a driver error.
func formatMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		if column := columnFromConstraint(sqlErr.ConstraintName); column != "" {
			entityName = humanizeText(strings.TrimSuffix(column, "_id"))
		}
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		return fmt.Sprintf("A %s with this identifier already exists", entityName)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	default:
		return "The store could not execute the statement"
	}
}

// getEntityName infers an entity name from table/column data.
//
//  1. column ending in "_id": its base name ("user_id" -> "User")
//  2. table name, singularized ("question_likes" -> "Question Like")
//  3. "record"
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		return humanizeText(strings.TrimSuffix(strings.ToLower(columnName), "_id"))
	}

	if tableName != "" {
		return humanizeText(singular(tableName))
	}

	return "record"
}

// singular is a crude English singularizer good enough for table names.
func singular(name string) string {
	switch {
	case strings.HasSuffix(name, "ies") && len(name) > 3:
		return name[:len(name)-3] + "y"
	case strings.HasSuffix(name, "s") && len(name) > 1:
		return name[:len(name)-1]
	}
	return name
}

// humanizeText converts snake_case into Title Case.
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

var fkConstraintRe = regexp.MustCompile(`^[a-z_]+?_([a-z]+_id)_fkey$`)

// columnFromConstraint extracts the column from a default PostgreSQL foreign
// key name, "<table>_<column>_fkey".
func columnFromConstraint(constraintName string) string {
	matches := fkConstraintRe.FindStringSubmatch(constraintName)
	if len(matches) > 1 {
		return matches[1]
	}
	return ""
}

var uniqueConstraintRe = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// extractColumnForUniqueViolation infers the column of a unique constraint.
//
//	unique_users_email -> "email"
//	users_email_key    -> "email"
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	matches := uniqueConstraintRe.FindStringSubmatch(constraintName)
	if len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// HandleError converts a low-level database error into an *errs.Error.
//
//   - nil stays nil
//   - an *errs.Error is returned unchanged
//   - pgx.ErrNoRows becomes a not-found error for table
//   - a *pgconn.PgError becomes a coded store error
//   - anything else (network, context, scan) becomes a generic store error
//
// Store errors wrap err, so errors.As still reaches the driver error.
func HandleError(err error, table string) error {
	if err == nil {
		return nil
	}

	var appErr *errs.Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		entity := strings.ToLower(getEntityName(table, ""))
		return errs.NewNotFoundError(entity+" not found", nil)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		sqlErr := ConvertPgError(pgErr)
		if sqlErr.TableName == "" {
			sqlErr.TableName = table
		}

		code := generateErrorCode(sqlErr)
		message := formatMessage(sqlErr)

		if sqlErr.Code == UniqueViolation {
			if column := extractColumnForUniqueViolation(sqlErr.ConstraintName); column != "" {
				message = strings.ReplaceAll(message, "identifier", humanizeText(column))
			}
		}

		storeErr := errs.NewStoreError(message, &code, sqlErr)
		if sqlErr.Code == NotNullViolation {
			storeErr.Errors = []errs.FieldError{{
				Field: strings.ToLower(sqlErr.ColumnName),
				Error: "is required",
			}}
		}
		return storeErr
	}

	return errs.NewStoreError(fmt.Sprintf("%s query failed", table), nil, err)
}
