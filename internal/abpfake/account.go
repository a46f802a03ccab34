package abpfake

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/abpadmin/modules/account"
)

func (s *Server) findTenantByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tenants {
		if strings.EqualFold(t.Name, name) {
			id := t.ID
			writeJSON(w, http.StatusOK, account.FindTenantResult{Success: true, TenantID: &id, Name: t.Name, IsActive: true})
			return
		}
	}
	writeJSON(w, http.StatusOK, account.FindTenantResult{})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in account.RegisterInput
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.general.IsSelfRegistrationEnabled {
		writeError(w, businessError(http.StatusForbidden, "Volo.Account:SelfRegistrationDisabled", "Self registration is disabled!"))
		return
	}
	if in.UserName == "" || in.EmailAddress == "" || in.Password == "" {
		writeError(w, validationError("The UserName, EmailAddress and Password fields are required.", "userName", "emailAddress", "password"))
		return
	}
	for _, u := range s.users {
		if strings.EqualFold(u.UserName, in.UserName) {
			writeError(w, businessError(http.StatusBadRequest, "Volo.Abp.Identity:DuplicateUserName", "Username '"+in.UserName+"' is already taken."))
			return
		}
	}

	user := account.IdentityUser{
		ID:               uuid.New(),
		UserName:         in.UserName,
		Email:            in.EmailAddress,
		IsActive:         true,
		CreationTime:     time.Now().UTC(),
		ConcurrencyStamp: uuid.NewString(),
	}
	s.users = append(s.users, user)
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) sendPasswordResetCode(w http.ResponseWriter, r *http.Request) {
	var in account.SendPasswordResetCodeInput
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.knownEmail(in.Email) {
		if s.general.PreventEmailEnumeration {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeError(w, businessError(http.StatusBadRequest, "Volo.Account:InvalidEmailAddress", "Can not find the given email address: "+in.Email))
		return
	}
	s.resetTokens[in.Email] = uuid.NewString()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) knownEmail(email string) bool {
	if strings.EqualFold(email, s.profile.Email) {
		return true
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	var in account.ResetPasswordInput
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for email, token := range s.resetTokens {
		if token == in.ResetToken {
			delete(s.resetTokens, email)
			if strings.EqualFold(email, s.profile.Email) {
				s.password = in.Password
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, businessError(http.StatusBadRequest, "Volo.Account:InvalidToken", "Invalid token."))
}

func (s *Server) getProfile(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.profile)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var in account.UpdateProfileInput
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.ConcurrencyStamp != "" && in.ConcurrencyStamp != s.profile.ConcurrencyStamp {
		writeError(w, businessError(http.StatusConflict, "Volo.Abp.Data:DbConcurrency",
			"The data you have submitted has already changed by another user/client."))
		return
	}
	s.profile.UserName = in.UserName
	s.profile.Email = in.Email
	s.profile.Name = in.Name
	s.profile.Surname = in.Surname
	s.profile.PhoneNumber = in.PhoneNumber
	if in.ExtraProperties != nil {
		s.profile.ExtraProperties = in.ExtraProperties
	}
	s.profile.ConcurrencyStamp = uuid.NewString()
	writeJSON(w, http.StatusOK, s.profile)
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	var in account.ChangePasswordInput
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile.HasPassword && in.CurrentPassword != s.password {
		writeError(w, businessError(http.StatusBadRequest, "Volo.Abp.Identity:PasswordMismatch", "Incorrect password."))
		return
	}
	s.password = in.NewPassword
	s.profile.HasPassword = true
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getProfilePicture(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.picture)
}

func (s *Server) setProfilePicture(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(account.MaxProfilePictureSize + 4096); err != nil {
		writeError(w, validationError("Malformed multipart body.", "imageContent"))
		return
	}
	t, err := strconv.Atoi(r.FormValue("type"))
	if err != nil {
		writeError(w, validationError("The type field is required.", "type"))
		return
	}

	pic := account.ProfilePicture{Type: account.ProfilePictureType(t)}
	switch pic.Type {
	case account.ProfilePictureImage:
		f, _, err := r.FormFile("imageContent")
		if err != nil {
			writeError(w, validationError("The imageContent field is required.", "imageContent"))
			return
		}
		pic.FileContent, _ = io.ReadAll(f)
		_ = f.Close()
	case account.ProfilePictureGravatar:
		s.mu.Lock()
		pic.Source = "https://secure.gravatar.com/avatar/" + strings.ToLower(s.profile.Email)
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.picture = pic
	s.userPictures[s.userID] = pic
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getProfilePictureByUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, validationError("The value is not a valid id.", "userId"))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.userPictures[id])
}

func (s *Server) getTwoFactorEnabled(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.twoFactorOn)
}

func (s *Server) setTwoFactorEnabled(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Enabled bool `json:"enabled"`
	}
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.twoFactor.TwoFactorBehaviour != account.TwoFactorOptional || !s.twoFactor.UsersCanChange {
		writeError(w, businessError(http.StatusForbidden, "Volo.Account:TwoFactorChangeNotAllowed",
			"Users are not allowed to change their two factor setting."))
		return
	}
	s.twoFactorOn = in.Enabled
	w.WriteHeader(http.StatusNoContent)
}
