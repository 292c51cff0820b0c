package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/ds124wfegd/flux-ideal-size/internal/entity"
	"github.com/gin-gonic/gin"
)

func (h *NodeHandler) ListNodes(c *gin.Context) {
	nodes := h.service.ListNodes()

	c.JSON(http.StatusOK, gin.H{
		"nodes": nodes,
		"count": len(nodes),
	})
}

func (h *NodeHandler) GetNode(c *gin.Context) {
	info, err := h.service.GetNode(c.Param("type"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

// Invoke evaluates a node. The body is a JSON object of input fields; an empty
// body uses every default.
func (h *NodeHandler) Invoke(c *gin.Context) {
	var raw map[string]interface{}

	decoder := json.NewDecoder(c.Request.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, fmt.Errorf("%w: %v", entity.ErrInvalidInput, err))
		return
	}

	inv, err := h.service.Invoke(c.Request.Context(), c.Param("type"), raw)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

func (h *NodeHandler) GetInvocation(c *gin.Context) {
	inv, err := h.service.GetInvocation(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

func (h *NodeHandler) ListInvocations(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			abortWithError(c, fmt.Errorf("%w: limit must be a non-negative integer", entity.ErrInvalidInput))
			return
		}
		limit = n
	}

	invocations, err := h.service.ListInvocations(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.InvocationListResponse{
		Invocations: invocations,
		Count:       len(invocations),
	})
}
