package sqlite

import (
	"fmt"

	"github.com/louisbranch/fractional/internal/services/ledger/storage"
)

type listEventsPageSQLPlan struct {
	whereClause      string
	params           []any
	orderClause      string
	limitClause      string
	countWhereClause string
	countParams      []any
}

func buildListEventsPageSQLPlan(req storage.ListEventsPageRequest) listEventsPageSQLPlan {
	whereClause := "1 = 1"
	var params []any
	if req.CursorSeq > 0 {
		if req.Descending {
			whereClause += " AND seq < ?"
		} else {
			whereClause += " AND seq > ?"
		}
		params = append(params, int64(req.CursorSeq))
	}

	countWhereClause := "1 = 1"
	var countParams []any
	if !req.Filter.Empty() {
		whereClause += " AND " + req.Filter.Clause
		params = append(params, req.Filter.Params...)
		countWhereClause += " AND " + req.Filter.Clause
		countParams = append(countParams, req.Filter.Params...)
	}

	orderClause := "ORDER BY seq ASC"
	if req.Descending {
		orderClause = "ORDER BY seq DESC"
	}

	return listEventsPageSQLPlan{
		whereClause:      whereClause,
		params:           params,
		orderClause:      orderClause,
		limitClause:      fmt.Sprintf("LIMIT %d", req.PageSize+1),
		countWhereClause: countWhereClause,
		countParams:      countParams,
	}
}
