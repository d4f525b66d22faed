// Вспомогательные функции для работы с данными, часто используемые в различных
// частях приложения.
//
// Основные возможности:
//   - Преобразование слайсов в слайсы другого типа с применением функции.
//   - Группировка слайса значений по ключу, вычисляемому из значения.
package utils

func SliceToSlice[T any, U any](in *[]T, f func(*T) U) []U {
	if in == nil {
		return make([]U, 0)
	}
	out := make([]U, len(*in))
	for i, v := range *in {
		out[i] = f(&v)
	}
	return out
}

func GroupBy[K comparable, V any](in []V, f func(*V) K) map[K][]V {
	out := make(map[K][]V)
	for _, v := range in {
		out[f(&v)] = append(out[f(&v)], v)
	}
	return out
}
