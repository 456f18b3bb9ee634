package static

import (
  "github.com/keep94/appcommon/http_util"
  "net/http"
)

func New() http.Handler {
  result := http.NewServeMux()
  http_util.AddStatic(result, "/warehouse.js", kWarehouseJs)
  http_util.AddStatic(result, "/theme.css", kThemeCss)
  return result
}
