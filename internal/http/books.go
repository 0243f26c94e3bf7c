package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lourensdv/boekrak/internal/entities"
	"github.com/lourensdv/boekrak/internal/library"
)

type BooksController struct {
	library  *library.Service
	sessions *SessionManager
}

func NewBooksController(svc *library.Service, sessions *SessionManager) *BooksController {
	return &BooksController{
		library:  svc,
		sessions: sessions,
	}
}

func (controller *BooksController) search(c *gin.Context) string {
	if controller.sessions == nil {
		return ""
	}
	return controller.sessions.SearchText(c.Request)
}

// ListBooks returns the derived view for the session's current filter and
// search state.
func (controller *BooksController) ListBooks(c *gin.Context) {
	books := controller.library.ListBooks(controller.search(c))
	c.IndentedJSON(http.StatusOK, BookListResponse{Books: books, Count: len(books)})
}

// AddBook creates a book and returns the recomputed view.
func (controller *BooksController) AddBook(c *gin.Context) {
	var book entities.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		respondBadRequest(c, "invalid book payload: "+err.Error())
		return
	}

	books, err := controller.library.AddBook(book, controller.search(c))
	switch {
	case errors.Is(err, library.ErrDuplicateBook):
		respondConflict(c, err.Error(), "duplicate_book")
		return
	case errors.Is(err, library.ErrMissingTitle):
		respondBadRequest(c, err.Error())
		return
	case err != nil:
		respondInternalError(c, err, "add book")
		return
	}
	c.IndentedJSON(http.StatusCreated, BookListResponse{Books: books, Count: len(books)})
}

type updateBookRequest struct {
	OldKey entities.BookKey `json:"old_key"`
	Book   entities.Book    `json:"book"`
}

// UpdateBook replaces the book identified by old_key.
func (controller *BooksController) UpdateBook(c *gin.Context) {
	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid update payload: "+err.Error())
		return
	}
	if req.OldKey.Title == "" {
		respondBadRequest(c, "old_key.title is required")
		return
	}

	books, err := controller.library.UpdateBook(req.OldKey, req.Book, controller.search(c))
	switch {
	case errors.Is(err, library.ErrBookNotFound):
		respondNotFound(c, "book")
		return
	case errors.Is(err, library.ErrDuplicateBook):
		respondConflict(c, err.Error(), "duplicate_book")
		return
	case errors.Is(err, library.ErrMissingTitle):
		respondBadRequest(c, err.Error())
		return
	case err != nil:
		respondInternalError(c, err, "update book")
		return
	}
	c.IndentedJSON(http.StatusOK, BookListResponse{Books: books, Count: len(books)})
}

// DeleteBook removes the book identified by the title and author query
// parameters.
func (controller *BooksController) DeleteBook(c *gin.Context) {
	title := c.Query("title")
	author := c.Query("author")
	if title == "" {
		respondBadRequest(c, "title query parameter is required")
		return
	}

	books, err := controller.library.DeleteBook(entities.BookKey{Title: title, Author: author}, controller.search(c))
	switch {
	case errors.Is(err, library.ErrBookNotFound):
		respondNotFound(c, "book")
		return
	case err != nil:
		respondInternalError(c, err, "delete book")
		return
	}
	c.IndentedJSON(http.StatusOK, BookListResponse{Books: books, Count: len(books)})
}

type searchRequest struct {
	Search string `json:"search"`
}

// SetSearch stores the transient search text in the session and returns the
// recomputed view. The text is never persisted.
func (controller *BooksController) SetSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid search payload: "+err.Error())
		return
	}

	if controller.sessions != nil {
		controller.sessions.SetSearchText(c.Request, req.Search)
	}
	books := controller.library.ListBooks(req.Search)
	c.IndentedJSON(http.StatusOK, BookListResponse{Books: books, Count: len(books)})
}
