package processor

import (
	"context"
	"fmt"
	"strings"
)

// Встроенные handlers референсного runtime. Все работают с payload как
// с непрозрачной строкой.

// Passthrough возвращает вход без изменений.
func Passthrough(_ context.Context, exec Execution) (string, error) {
	return exec.Input, nil
}

// Uppercase переводит вход в верхний регистр.
func Uppercase(_ context.Context, exec Execution) (string, error) {
	return strings.ToUpper(exec.Input), nil
}

// Annotate оборачивает вход в JSON-объект с пометкой из assignment
// "label" и идентификаторами выполнения.
func Annotate(_ context.Context, exec Execution) (string, error) {
	label, ok := exec.Assignment("label")
	if !ok {
		label = "annotated"
	}

	return fmt.Sprintf(`{"label":%q,"step_id":%q,"execution_id":%q,"payload":%q}`,
		label, exec.StepID, exec.ExecutionID, exec.Input), nil
}
