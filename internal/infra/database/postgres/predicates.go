package postgres

import (
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// Хелперы-предикаты: доменное понятие -> типизированный SQL-фрагмент.
// Все они чистые; nil-результат означает "без ограничения".

// optionalRange строит закрытый/полуоткрытый диапазон по заданным краям.
// Оба края nil — это валидно и означает отсутствие условия: вызывающие
// рассчитывают на это, чтобы вовсе не добавлять клаузу.
func optionalRange[T any](column string, from, to *T) sq.Sqlizer {
	switch {
	case from != nil && to != nil:
		return sq.And{sq.GtOrEq{column: *from}, sq.LtOrEq{column: *to}}
	case from != nil:
		return sq.GtOrEq{column: *from}
	case to != nil:
		return sq.LtOrEq{column: *to}
	default:
		return nil
	}
}

// asUUID сравнивает колонку-идентификатор со строковым uuid через явный
// каст: кривой uuid падает в базе ошибкой приведения типа, здесь ничего
// не валидируется и не приводится молча.
func asUUID(column string, id uuid.UUID) sq.Sqlizer {
	return sq.Expr(column+" = ?::uuid", id.String())
}

// anyUUID — членство колонки в массиве идентификаторов
func anyUUID(column string, ids []uuid.UUID) sq.Sqlizer {
	ss := make([]string, len(ids))
	for i, id := range ids {
		ss[i] = id.String()
	}
	return sq.Expr(column+" = ANY(?::uuid[])", ss)
}

// asVector форматирует вектор в литерал pgvector: "[0.1,0.2,...]"
func asVector(embedding []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range embedding {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

// withAllPeople — подзапрос-обёртка базовой таблицы: остаются только
// активы, лица которых покрывают ВСЕ перечисленные person ids (не
// "хотя бы один"). Группировка по активу + подсчёт различных людей.
// Пустой список сюда не попадает — это no-op на стороне билдера.
func (r *PGRepo) withAllPeople(personIDs []uuid.UUID) sq.SelectBuilder {
	return sq.Select("a.*").
		From(r.t("assets") + " a").
		Join(r.t("asset_faces") + " f ON f.asset_id = a.id").
		Where(anyUUID("f.person_id", personIDs)).
		GroupBy("a.id").
		Having("count(distinct f.person_id) >= ?", len(personIDs))
}
