package utils

import (
	"github.com/kataras/iris/v12"
)

type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
}

// JSONSuccess writes the standard success envelope.
func JSONSuccess(ctx iris.Context, data interface{}) {
	ctx.JSON(iris.Map{
		"status": "success",
		"data":   data,
	})
}

// JSONPage writes a success envelope with pagination metadata.
func JSONPage(ctx iris.Context, data interface{}, page, perPage int, total int64) {
	pages := 0
	if perPage > 0 {
		pages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	ctx.JSON(iris.Map{
		"status":     "success",
		"data":       data,
		"pagination": Pagination{Current: page, Pages: pages, Total: total},
	})
}

func JSONError(ctx iris.Context, status int, message string) {
	ctx.StopWithJSON(status, iris.Map{
		"status":  "error",
		"message": message,
	})
}
