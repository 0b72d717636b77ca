/*
Package server exposes a trained model over HTTP. Examples are sent as
JSON objects with a property per attribute; null values are read as
missing.
*/
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pbanos/grove"
	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/forest"
	"github.com/pbanos/grove/tree"
	"github.com/sirupsen/logrus"
)

// Server answers predictions for a model
type Server struct {
	model  grove.Model
	logger logrus.FieldLogger
	engine *gin.Engine
}

/*
New takes a model and a logger and returns a Server with the following
routes:
  * POST /predict takes an example and answers its label
  * POST /predict/batch takes a list of examples and answers their labels
  * POST /accuracy takes a list of examples and answers the accuracy of
  the model on them
  * GET /tree answers a text rendering of the model trees
  * GET /healthz
*/
func New(model grove.Model, logger logrus.FieldLogger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{model: model, logger: logger, engine: gin.New()}
	s.engine.Use(gin.Recovery(), s.logRequests)
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/tree", s.handleTree)
	s.engine.POST("/predict", s.handlePredict)
	s.engine.POST("/predict/batch", s.handleBatch)
	s.engine.POST("/accuracy", s.handleAccuracy)
	return s
}

// Handler returns the http.Handler of the server
func (s *Server) Handler() http.Handler {
	return s.engine
}

/*
Run listens on the given address and serves requests until the context
is done, then shuts the server down gracefully.
*/
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine}
	errs := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("serving predictions")
		errs <- srv.ListenAndServe()
	}()
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(sctx)
	if err != nil {
		return fmt.Errorf("shutting down server: %v", err)
	}
	return nil
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.WithFields(logrus.Fields{
		"method":   c.Request.Method,
		"path":     c.Request.URL.Path,
		"status":   c.Writer.Status(),
		"duration": time.Since(start),
	}).Debug("request served")
}

func (s *Server) handlePredict(c *gin.Context) {
	var doc map[string]interface{}
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	label, err := s.model.Predict(dataset.NewExample(doc))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"label": label})
}

func (s *Server) handleBatch(c *gin.Context) {
	examples, ok := bindExamples(c)
	if !ok {
		return
	}
	labels := make([]string, len(examples))
	for i, e := range examples {
		label, err := s.model.Predict(e)
		if err != nil {
			s.fail(c, fmt.Errorf("example #%d: %w", i+1, err))
			return
		}
		labels[i] = label
	}
	c.JSON(http.StatusOK, gin.H{"labels": labels})
}

func (s *Server) handleAccuracy(c *gin.Context) {
	examples, ok := bindExamples(c)
	if !ok {
		return
	}
	accuracy, err := s.model.Accuracy(examples)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accuracy": accuracy, "examples": len(examples)})
}

func (s *Server) handleTree(c *gin.Context) {
	switch m := s.model.(type) {
	case *tree.Node:
		c.String(http.StatusOK, m.String())
	case *forest.Forest:
		var b strings.Builder
		for i, t := range m.Trees() {
			fmt.Fprintf(&b, "# tree %d\n%v\n", i+1, t)
		}
		c.String(http.StatusOK, b.String())
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no rendering for %T", m)})
	}
}

func bindExamples(c *gin.Context) ([]dataset.Example, bool) {
	var docs []map[string]interface{}
	if err := c.ShouldBindJSON(&docs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return nil, false
	}
	examples := make([]dataset.Example, len(docs))
	for i, d := range docs {
		examples[i] = dataset.NewExample(d)
	}
	return examples, true
}

func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var mae *dataset.MissingAttributeError
	switch {
	case errors.Is(err, dataset.ErrEmptyDataset):
		status = http.StatusBadRequest
	case errors.As(err, &mae):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.logger.WithError(err).Error("serving request")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
