package logout

import (
  "github.com/JamesGlub/eden-1/apps/warehouse/common"
  "github.com/keep94/appcommon/http_util"
  "net/http"
)

type Handler struct {
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
  session := common.GetUserSession(r)
  session.ClearAll()
  session.Save(r, w)
  http_util.Redirect(w, r, "/inv/recv")
}
