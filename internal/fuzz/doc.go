// Package fuzztests houses Go fuzz harnesses for the untrusted inputs of the
// expander: serialized tree files and meta-item strings from flags and
// manifests. The goal is to guard against panics and hangs.
//
// Назначение: прогонять произвольные байты через treeio.Decode, ast.ParseMeta
// и полный цикл expand.Run.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/treeio, internal/ast, internal/expand, internal/builtin.
package fuzztests
