package main

import (
	"errors"
	"net/http"

	"github.com/ekesta/portfolio/internal/authservice"
	"github.com/ekesta/portfolio/internal/blogservice"
	"github.com/ekesta/portfolio/internal/common"
	"github.com/ekesta/portfolio/internal/contactservice"
)

func (app *application) postErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr common.ValidationError

	switch {
	case errors.Is(err, common.ErrRecordNotFound):
		app.notFoundErrorResponse(w, r)
	case errors.Is(err, blogservice.ErrTitleRequired):
		app.failedValidationErrorResponse(w, r, map[string]string{"title": "must be provided"})
	case errors.Is(err, blogservice.ErrDuplicateSlug):
		app.conflictErrorResponse(w, r, "another post claimed this slug, please try again")
	case errors.As(err, &validationErr):
		app.failedValidationErrorResponse(w, r, validationErr.Errors)
	default:
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listPostsHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	page, limit, err := app.readPageParams(qs)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	published, err := app.readBool(qs, "published")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	filter := blogservice.ListFilter{
		Page:      page,
		Limit:     limit,
		Tag:       qs.Get("tag"),
		Search:    qs.Get("search"),
		Published: published,
	}

	posts, pagination, err := app.blogService.ListPosts(r.Context(), filter)
	if err != nil {
		app.postErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"posts": posts, "pagination": pagination}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showPostHandler also serves /v1/blog/featured and /v1/blog/tags, which
// httprouter cannot register next to the :slug wildcard.
func (app *application) showPostHandler(w http.ResponseWriter, r *http.Request) {
	slug := app.readStringParam(r, "slug")

	switch slug {
	case "featured":
		app.featuredPostsHandler(w, r)
		return
	case "tags":
		app.tagsHandler(w, r)
		return
	}

	post, err := app.blogService.GetPost(r.Context(), slug)
	if err != nil {
		app.postErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) featuredPostsHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := app.blogService.FeaturedPosts(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"posts": posts}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) tagsHandler(w http.ResponseWriter, r *http.Request) {
	tags, err := app.blogService.Tags(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"tags": tags}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createPostHandler(w http.ResponseWriter, r *http.Request) {
	var input blogservice.CreatePostRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.blogService.CreatePost(r.Context(), &input)
	if err != nil {
		app.postErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", "/v1/blog/"+post.Slug)

	err = app.writeJSON(w, http.StatusCreated, envelope{"post": post}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updatePostHandler(w http.ResponseWriter, r *http.Request) {
	var input blogservice.UpdatePostRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.blogService.UpdatePost(r.Context(), app.readStringParam(r, "slug"), &input)
	if err != nil {
		app.postErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	err := app.blogService.DeletePost(r.Context(), app.readStringParam(r, "slug"))
	if err != nil {
		app.postErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "post deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) submitContactHandler(w http.ResponseWriter, r *http.Request) {
	var input contactservice.SubmitContactRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	input.IPAddress = clientIP(r)

	if app.config.Limiter.Enabled {
		key := contactservice.NormalizeEmail(input.Email)
		if key == "" {
			key = input.IPAddress
		}

		if !app.allowWindow(w, app.limiters.contactEmail, key) {
			app.rateLimitExceededResponse(w, r, "too many messages from this email address, please try again later")
			return
		}
	}

	contact, err := app.contactService.SubmitContact(r.Context(), &input)
	if err != nil {
		var validationErr common.ValidationError
		switch {
		case errors.As(err, &validationErr):
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	env := envelope{
		"message": "thank you for your message, I'll get back to you soon",
		"contact": map[string]any{
			"id":         contact.ID,
			"name":       contact.Name,
			"subject":    contact.Subject,
			"created_at": contact.CreatedAt,
		},
	}

	err = app.writeJSON(w, http.StatusCreated, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listContactsHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	page, limit, err := app.readPageParams(qs)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	filter := contactservice.ListFilter{Page: page, Limit: limit, Status: qs.Get("status")}

	contacts, pagination, err := app.contactService.ListContacts(r.Context(), filter)
	if err != nil {
		var validationErr common.ValidationError
		switch {
		case errors.As(err, &validationErr):
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"contacts": contacts, "pagination": pagination}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type updateContactStatusRequest struct {
	Status string `json:"status"`
}

func (app *application) updateContactStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	var input updateContactStatusRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	contact, err := app.contactService.UpdateStatus(r.Context(), id, input.Status)
	if err != nil {
		var validationErr common.ValidationError
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &validationErr):
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"contact": contact}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var input loginRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	if input.Password == "" {
		app.failedValidationErrorResponse(w, r, map[string]string{"password": "must be provided"})
		return
	}

	token, err := app.authService.Login(input.Password)
	if err != nil {
		switch {
		case errors.Is(err, authservice.ErrInvalidCredentials):
			app.invalidCredentialsErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// failed attempts before a successful login no longer count
	app.limiters.auth.Reset(clientIP(r))

	err = app.writeJSON(w, http.StatusOK, envelope{"authentication_token": token}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) verifyTokenHandler(w http.ResponseWriter, r *http.Request) {
	claims := app.contextGetClaims(r)

	env := envelope{
		"valid":      true,
		"role":       claims.Role,
		"expires_at": claims.ExpiresAt.Time,
	}

	err := app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
