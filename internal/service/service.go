// Package service exposes an address book through a REST API.
package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"gitlab.com/dirk.krummacker/addressbook/internal/logger"
	"gitlab.com/dirk.krummacker/addressbook/pkg/addressbook"
	"gitlab.com/dirk.krummacker/addressbook/pkg/contacts"
	"gitlab.com/dirk.krummacker/addressbook/pkg/model"
)

// Mirror receives a copy of the address book after every change.
type Mirror interface {
	Save(ctx context.Context, book *addressbook.AddressBook) error
}

// Options configure a Service.
type Options struct {
	// BookFile is the file the address book is written to after every change. Nothing is written
	// if it is empty.
	BookFile string

	// PageSize is the number of contacts per page if the request does not specify one.
	PageSize int

	// Mirror is optional.
	Mirror Mirror

	// RequestLogging turns on gin's request logger.
	RequestLogging bool

	Logger *slog.Logger

	// Now returns the current time; it defaults to time.Now.
	Now func() time.Time
}

// Service serves one address book. Requests are handled one at a time because the address book
// itself is not safe for concurrent use.
type Service struct {
	mu      sync.Mutex
	book    *addressbook.AddressBook
	options Options
	log     *slog.Logger
}

// phoneBody is the request body for adding or editing a phone number.
type phoneBody struct {
	Phone string `json:"phone" binding:"required"`
}

// birthdayBody is the request body for setting a birthday.
type birthdayBody struct {
	Birthday string `json:"birthday" binding:"required"`
}

// New creates a service for the address book.
func New(book *addressbook.AddressBook, options Options) *Service {
	if options.PageSize < 1 {
		options.PageSize = addressbook.DefaultPageSize
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	log := options.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{book: book, options: options, log: log}
}

// SetupHttpRouter initializes the REST API router and registers all endpoints.
func (s *Service) SetupHttpRouter() *gin.Engine {
	var router *gin.Engine
	if s.options.RequestLogging {
		router = gin.Default()
	} else {
		s.log.Info("request logging is turned off")
		router = gin.New()
		router.Use(gin.Recovery())
	}
	router.Use(s.serialize)
	router.GET("/contacts", s.findContacts)
	router.POST("/contacts", s.createContact)
	router.GET("/contacts/:name", s.findContactByName)
	router.DELETE("/contacts/:name", s.deleteContactByName)
	router.POST("/contacts/:name/phones", s.addPhone)
	router.PUT("/contacts/:name/phones/:phone", s.editPhone)
	router.DELETE("/contacts/:name/phones/:phone", s.removePhone)
	router.GET("/contacts/:name/birthday", s.findBirthday)
	router.PUT("/contacts/:name/birthday", s.setBirthday)
	return router
}

// snapshotKey is the context key of the copy of the address book taken before a change.
const snapshotKey = "addressbook.snapshot"

// serialize lets only one request at a time access the address book. Requests that may change the
// book get a copy of it first, so that rollback can restore it.
func (s *Service) serialize(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.Set(snapshotKey, s.book.Clone())
	}
	c.Next()
}

// rollback restores the address book to the copy taken before the request changed it. The book
// must only keep a change that has been saved.
func (s *Service) rollback(c *gin.Context) {
	if snapshot, ok := c.Get(snapshotKey); ok {
		*s.book = *snapshot.(*addressbook.AddressBook)
	}
}

// findContacts responds with a list of contacts as JSON.
//
// Without URL parameters, the first page of contacts is returned. The URL parameters 'page' and
// 'size' select another page and the number of contacts per page.
//
// The URL parameter 'q' returns all contacts whose name or phone number contains the value.
//
// The URL parameter 'birthday' consists of a month part and a day part, separated by '-'. The call
// returns all contacts that have their birthday on this month and day, regardless of the year.
//
// The URL parameter 'within' returns all contacts whose next birthday is at most this many days
// away, closest first.
//
// REST API calls:
//
//	> curl "http://localhost:8080/contacts"
//	> curl "http://localhost:8080/contacts?page=3&size=10"
//	> curl "http://localhost:8080/contacts?q=Smi"
//	> curl "http://localhost:8080/contacts?birthday=11-29"
//	> curl "http://localhost:8080/contacts?within=7"
func (s *Service) findContacts(c *gin.Context) {
	var records []*contacts.Record
	if birthday, ok := c.GetQuery("birthday"); ok {
		month, day, success := parseBirthday(birthday)
		if !success {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid birthday URL parameter"})
			return
		}
		records = s.book.BirthdaysOn(month, day)
	} else if within, ok := c.GetQuery("within"); ok {
		days, err := strconv.Atoi(within)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid within parameter"})
			return
		}
		records, err = s.book.UpcomingBirthdays(s.options.Now(), days)
		if err != nil {
			s.abortWithError(c, err)
			return
		}
	} else if query, ok := c.GetQuery("q"); ok {
		records = s.book.Search(query)
	} else {
		page, size, success := s.parsePageAndSize(c)
		if !success {
			return
		}
		pages, err := s.book.Pages(size)
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		if pages.Skip(page - 1) {
			records, _ = pages.Next()
		}
	}
	c.IndentedJSON(http.StatusOK, s.toContacts(records))
}

// parseBirthday splits a value like '11-29' into month and day.
func parseBirthday(value string) (month time.Month, day int, success bool) {
	before, after, found := strings.Cut(value, "-")
	if !found {
		return 0, 0, false
	}
	m, err := strconv.Atoi(before)
	if err != nil || m < 1 || m > 12 {
		return 0, 0, false
	}
	day, err = strconv.Atoi(after)
	if err != nil || day < 1 || day > 31 {
		return 0, 0, false
	}
	return time.Month(m), day, true
}

// parsePageAndSize inspects the URL parameters and determines the page number and the page size.
func (s *Service) parsePageAndSize(c *gin.Context) (page int, size int, success bool) {
	page, size = 1, s.options.PageSize
	if value := c.Query("page"); value != "" {
		var err error
		page, err = strconv.Atoi(value)
		if err != nil || page < 1 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid page parameter"})
			return 0, 0, false
		}
	}
	if value := c.Query("size"); value != "" {
		var err error
		size, err = strconv.Atoi(value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid size parameter"})
			return 0, 0, false
		}
	}
	return page, size, true
}

// createContact adds the contact specified in the request's JSON to the address book. It responds
// with the full contact. A contact with the same name must not exist yet.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts --request "POST" --include --header "Content-Type: application/json" --data '{"name": "Hans Wurst", "phones": ["0815471100"], "birthday": "1969-03-02"}'
func (s *Service) createContact(c *gin.Context) {
	var submitted model.Contact
	if err := c.ShouldBindJSON(&submitted); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	record, err := submitted.ToRecord()
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	if _, exists := s.book.Find(record.Name().Value()); exists {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": "contact already exists"})
		return
	}
	s.book.AddRecord(record)
	if !s.persist(c) {
		return
	}
	s.log.Info("contact created", "name", record.Name().Value())
	c.IndentedJSON(http.StatusCreated, s.toContact(record))
}

// findContactByName responds with the contact whose name matches the name parameter of the
// request URL exactly.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/Hans%20Wurst
func (s *Service) findContactByName(c *gin.Context) {
	record, ok := s.findRecord(c)
	if !ok {
		return
	}
	c.IndentedJSON(http.StatusOK, s.toContact(record))
}

// deleteContactByName removes the contact whose name matches the name parameter of the request
// URL from the address book.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/Hans%20Wurst --request "DELETE"
func (s *Service) deleteContactByName(c *gin.Context) {
	record, ok := s.findRecord(c)
	if !ok {
		return
	}
	s.book.Delete(record.Name().Value())
	if !s.persist(c) {
		return
	}
	s.log.Info("contact deleted", "name", record.Name().Value())
	c.IndentedJSON(http.StatusOK, gin.H{"message": "contact deleted"})
}

// addPhone appends a phone number to the contact and responds with the updated contact.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/Hans%20Wurst/phones --request "POST" --header "Content-Type: application/json" --data '{"phone": "0815471101"}'
func (s *Service) addPhone(c *gin.Context) {
	record, ok := s.findRecord(c)
	if !ok {
		return
	}
	var body phoneBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	if err := record.AddPhone(body.Phone); err != nil {
		s.abortWithError(c, err)
		return
	}
	if !s.persist(c) {
		return
	}
	c.IndentedJSON(http.StatusCreated, s.toContact(record))
}

// editPhone replaces the phone number in the request URL with the one in the request's JSON.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/Hans%20Wurst/phones/0815471101 --request "PUT" --header "Content-Type: application/json" --data '{"phone": "0815471102"}'
func (s *Service) editPhone(c *gin.Context) {
	record, ok := s.findRecord(c)
	if !ok {
		return
	}
	var body phoneBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	if err := record.EditPhone(c.Param("phone"), body.Phone); err != nil {
		s.abortWithError(c, err)
		return
	}
	if !s.persist(c) {
		return
	}
	c.IndentedJSON(http.StatusOK, s.toContact(record))
}

// removePhone removes the phone number in the request URL from the contact.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/Hans%20Wurst/phones/0815471102 --request "DELETE"
func (s *Service) removePhone(c *gin.Context) {
	record, ok := s.findRecord(c)
	if !ok {
		return
	}
	number := c.Param("phone")
	_, found, err := record.FindPhone(number)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	if !found {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "phone not found"})
		return
	}
	record.RemovePhone(number)
	if !s.persist(c) {
		return
	}
	c.IndentedJSON(http.StatusOK, s.toContact(record))
}

// findBirthday responds with the contact's birthday and the number of days until the next one.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/Hans%20Wurst/birthday
func (s *Service) findBirthday(c *gin.Context) {
	record, ok := s.findRecord(c)
	if !ok {
		return
	}
	birthday, hasBirthday := record.Birthday()
	if !hasBirthday {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "contact has no birthday"})
		return
	}
	days, _ := record.DaysToBirthdayFrom(s.options.Now())
	c.IndentedJSON(http.StatusOK, gin.H{"birthday": birthday.String(), "days": days})
}

// setBirthday sets or replaces the contact's birthday.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/Hans%20Wurst/birthday --request "PUT" --header "Content-Type: application/json" --data '{"birthday": "1972-06-06"}'
func (s *Service) setBirthday(c *gin.Context) {
	record, ok := s.findRecord(c)
	if !ok {
		return
	}
	var body birthdayBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	if err := record.SetBirthday(body.Birthday); err != nil {
		s.abortWithError(c, err)
		return
	}
	if !s.persist(c) {
		return
	}
	c.IndentedJSON(http.StatusOK, s.toContact(record))
}

// findRecord looks up the contact named in the request URL. It answers the request with NOT FOUND
// if there is none.
func (s *Service) findRecord(c *gin.Context) (*contacts.Record, bool) {
	record, ok := s.book.Find(c.Param("name"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
	}
	return record, ok
}

// persist writes the address book to the book file and the mirror. If that fails, it undoes the
// request's change and answers with an internal server error.
func (s *Service) persist(c *gin.Context) bool {
	if s.options.BookFile != "" {
		if err := s.book.WriteToFile(s.options.BookFile); err != nil {
			s.log.Error("could not write address book", "file", s.options.BookFile, logger.Err(err))
			s.rollback(c)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "could not save address book"})
			return false
		}
	}
	if s.options.Mirror != nil {
		if err := s.options.Mirror.Save(c.Request.Context(), s.book); err != nil {
			s.log.Error("could not mirror address book", logger.Err(err))
			s.rollback(c)
			if s.options.BookFile != "" {
				if err := s.book.WriteToFile(s.options.BookFile); err != nil {
					s.log.Error("could not restore address book file", "file", s.options.BookFile, logger.Err(err))
				}
			}
			if errors.Is(err, contacts.ErrInvalidArgument) {
				s.abortWithError(c, err)
				return false
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "could not save address book"})
			return false
		}
	}
	return true
}

// abortWithError answers the request with the status code matching the error.
func (s *Service) abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, contacts.ErrValidation), errors.Is(err, contacts.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, contacts.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": err.Error()})
	default:
		s.log.Error("request failed", "path", c.FullPath(), logger.Err(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}

// toContact converts a record for the response, including the days until the next birthday.
func (s *Service) toContact(record *contacts.Record) model.Contact {
	contact := model.FromRecord(record)
	if days, ok := record.DaysToBirthdayFrom(s.options.Now()); ok {
		contact.DaysToBirthday = &days
	}
	return contact
}

func (s *Service) toContacts(records []*contacts.Record) []model.Contact {
	result := make([]model.Contact, 0, len(records))
	for _, record := range records {
		result = append(result, s.toContact(record))
	}
	return result
}
