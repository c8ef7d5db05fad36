// Package format renders an expanded tree back to surface syntax for
// inspection (`syntex dump`, `syntex expand --emit text`).
//
// Назначение: стабильный текстовый вывод дерева после раскрытия, с опциональной
// печатью hygiene-меток (`x#3`) и NodeID.
// Не делает: сохранения комментариев и исходного форматирования, IO.
// Зависимости: internal/ast.
package format
