// Package handlers implements the read-only HTTP introspection mirror of
// the command surface's show/list operations (spec §4.9, §6). It never
// mutates the datastore — every write goes through the textual admin
// surface (internal/admin) so the single-threaded cooperative ordering
// guarantee (spec §5) is never bypassed.
package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"lagopus.io/datastore/internal/api/middleware"
	"lagopus.io/datastore/internal/datastore"
	"lagopus.io/datastore/internal/fullname"
)

// Router is the gin engine serving the introspection API.
type Router struct {
	*gin.Engine
}

// NewRouter builds the router, registering one collection and one item
// route per object kind.
func NewRouter(ds *datastore.Datastore) *Router {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.ErrorHandler(), cors.Default())

	v1 := r.Group("/v1")
	for _, kind := range []string{
		"policer-action", "channel", "interface", "queue",
		"policer", "controller", "port", "bridge",
	} {
		v1.GET("/"+kind, listHandler(ds, kind))
		v1.GET("/"+kind+"/*fullname", getHandler(ds, kind))
	}

	return &Router{Engine: r}
}

func listHandler(ds *datastore.Datastore, kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ns *string
		if v, ok := c.GetQuery("ns"); ok {
			ns = &v
		}
		confs, err := ds.List(kind, ns)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(200, confs)
	}
}

func getHandler(ds *datastore.Datastore, kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := trimLeadingSlash(c.Param("fullname"))
		name, ferr := fullname.Parse(raw)
		if ferr != nil {
			_ = c.Error(ferr)
			return
		}
		view := c.DefaultQuery("view", "current")
		conf, err := ds.Show(kind, name, view)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(200, conf)
	}
}

func trimLeadingSlash(s string) string {
	if len(s) > 0 && s[0] == '/' {
		return s[1:]
	}
	return s
}
