package api

import (
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gorilla/mux"

	"github.com/catascopic/solstice/config"
	"github.com/catascopic/solstice/relay"
)

// Handler serves the plain-HTTP side: the home redirect, the name
// availability check, and the static game files.
type Handler struct {
	Config  *config.Config
	Session *relay.Session
}

// NewHandler creates an API handler over session.
func NewHandler(cfg *config.Config, session *relay.Session) *Handler {
	return &Handler{Config: cfg, Session: session}
}

// Router builds the HTTP route table.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", h.Home)
	r.HandleFunc("/checkname/{name}", h.CheckName)
	r.PathPrefix("/").HandlerFunc(h.Static)
	return r
}

// Home redirects to the guide.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.Config.HomePath, http.StatusFound)
}

// CheckName reports whether an identity token is free to claim: 200 when
// available, 403 when currently online, 400 when malformed. It only reads the
// registry; claiming happens on the websocket side.
func (h *Handler) CheckName(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	switch {
	case !relay.ValidSign.MatchString(name):
		w.WriteHeader(http.StatusBadRequest)
	case h.Session.Online(name):
		w.WriteHeader(http.StatusForbidden)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

// Static serves files under Config.StaticDir. Paths whose last element has no
// extension are treated as directories: without a trailing slash they get a
// permanent redirect, with one they serve their index.html.
func (h *Handler) Static(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Path
	if strings.Contains(p, "..") {
		http.Error(w, "bad path", http.StatusBadRequest)
		return
	}

	if strings.Contains(path.Base(p), ".") {
		h.serveFile(w, r, p)
		return
	}
	if !strings.HasSuffix(p, "/") {
		http.Redirect(w, r, p+"/", http.StatusMovedPermanently)
		return
	}
	h.serveFile(w, r, path.Join(p, "index.html"))
}

func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, p string) {
	full := path.Join(h.Config.StaticDir, path.Clean("/"+p))
	if _, err := os.Stat(full); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, full)
}
