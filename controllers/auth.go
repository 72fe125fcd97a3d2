package controllers

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"urbanserve/db"
	"urbanserve/models"
	"urbanserve/utils"
)

type registerInput struct {
	Name     string      `json:"name" validate:"required"`
	Email    string      `json:"email" validate:"required,email"`
	Phone    string      `json:"phone" validate:"required"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     models.Role `json:"role"`
	// provider-only extras
	CompanyName string `json:"company_name"`
}

// Register creates a user; provider-role registrations also create the
// Provider aggregate, which stays unapproved until an admin signs off.
func Register(c *fiber.Ctx) error {
	input := new(registerInput)
	if err := c.BodyParser(input); err != nil {
		return utils.RespondError(c, utils.Validation("Cannot parse JSON"))
	}
	if appErr := utils.ValidateStruct(input); appErr != nil {
		return utils.RespondError(c, appErr)
	}

	if input.Role == "" {
		input.Role = models.RoleCustomer
	}
	if !input.Role.Valid() || input.Role == models.RoleAdmin {
		return utils.RespondError(c, utils.Validation("Role must be customer or provider"))
	}

	var existing models.User
	if db.DB.Where("email = ?", input.Email).First(&existing).RowsAffected > 0 {
		return utils.RespondError(c, utils.Conflict("User with this email already exists"))
	}
	if db.DB.Where("phone = ?", input.Phone).First(&existing).RowsAffected > 0 {
		return utils.RespondError(c, utils.Conflict("User with this phone number already exists"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.RespondError(c, err)
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: string(hashed),
		Role:     input.Role,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		return utils.RespondError(c, err)
	}

	if user.Role == models.RoleProvider {
		provider := models.Provider{
			UserID:      user.ID,
			CompanyName: input.CompanyName,
		}
		if err := db.DB.Create(&provider).Error; err != nil {
			return utils.RespondError(c, err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login authenticates and returns access + refresh tokens. Providers that
// have not been approved yet cannot log in for business.
func Login(c *fiber.Ctx) error {
	type loginInput struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	input := new(loginInput)
	if err := c.BodyParser(input); err != nil {
		return utils.RespondError(c, utils.Validation("Cannot parse JSON"))
	}

	var user models.User
	if db.DB.Where("email = ?", input.Email).First(&user).RowsAffected == 0 {
		return utils.RespondError(c, utils.Unauthenticated("Invalid email or password"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return utils.RespondError(c, utils.Unauthenticated("Invalid email or password"))
	}

	if user.Role == models.RoleProvider {
		var provider models.Provider
		if err := db.DB.Where("user_id = ?", user.ID).First(&provider).Error; err != nil {
			return utils.RespondError(c, err)
		}
		if !provider.IsApproved {
			return utils.RespondError(c, utils.Forbidden("Your provider account is pending approval"))
		}
	}

	tokenString, err := signToken(jwt.MapClaims{
		"id":   user.ID,
		"name": user.Name,
		"role": string(user.Role),
		"exp":  time.Now().Add(time.Hour * 24).Unix(),
	})
	if err != nil {
		return utils.RespondError(c, err)
	}

	refreshString, err := signToken(jwt.MapClaims{
		"id":   user.ID,
		"name": user.Name,
		"role": string(user.Role),
		"exp":  time.Now().Add(time.Hour * 24 * 7).Unix(),
	})
	if err != nil {
		return utils.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"token":        tokenString,
		"refreshToken": refreshString,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// GetProfile returns the current user's profile
func GetProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return utils.RespondError(c, utils.NotFound("User not found"))
	}
	return c.JSON(user)
}

type profileUpdateInput struct {
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	Gender      string          `json:"gender"`
	DateOfBirth *time.Time      `json:"date_of_birth"`
	Address     *models.Address `json:"address"`
	Password    string          `json:"password"`
}

// UpdateProfile lets users edit their own profile fields.
func UpdateProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return utils.RespondError(c, utils.NotFound("User not found"))
	}

	input := new(profileUpdateInput)
	if err := c.BodyParser(input); err != nil {
		return utils.RespondError(c, utils.Validation("Cannot parse JSON"))
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.Gender != "" {
		user.Gender = input.Gender
	}
	if input.DateOfBirth != nil {
		user.DateOfBirth = input.DateOfBirth
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return utils.RespondError(c, err)
		}
		user.Password = string(hashed)
	}

	if err := db.DB.Save(&user).Error; err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(user)
}

// UploadProfilePicture stores the uploaded image and saves its URL.
func UploadProfilePicture(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return utils.RespondError(c, utils.NotFound("User not found"))
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return utils.RespondError(c, utils.Validation("Image file is required"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return utils.RespondError(c, err)
	}
	defer file.Close()

	url, err := utils.UploadImage(file, "", "profilePictures")
	if err != nil {
		return utils.RespondError(c, utils.External("Image upload failed"))
	}

	user.ProfilePicture = url
	if err := db.DB.Save(&user).Error; err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"profile_picture": url})
}

// RefreshToken generates a new access token using a refresh token
func RefreshToken(c *fiber.Ctx) error {
	type refreshRequest struct {
		RefreshToken string `json:"refreshToken"`
	}

	req := new(refreshRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.RespondError(c, utils.Validation("Cannot parse JSON"))
	}

	token, err := jwt.Parse(req.RefreshToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret()), nil
	})
	if err != nil || !token.Valid {
		return utils.RespondError(c, utils.Unauthenticated("Invalid refresh token"))
	}

	claims := token.Claims.(jwt.MapClaims)
	tokenString, err := signToken(jwt.MapClaims{
		"id":   claims["id"],
		"name": claims["name"],
		"role": claims["role"],
		"exp":  time.Now().Add(time.Hour * 24).Unix(),
	})
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"token": tokenString})
}

func jwtSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "solid_secret_key" // Replace with secure key in production
	}
	return secret
}

func signToken(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret()))
}
