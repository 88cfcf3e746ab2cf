package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mara/routinely-api/internal/database"
	"github.com/mara/routinely-api/internal/middleware"
	"github.com/mara/routinely-api/internal/models"
)

func CreateHousehold(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateHouseholdRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name is required",
		})
	}

	household := models.Household{
		OwnerID: userID,
		Name:    req.Name,
		Kind:    req.Kind,
	}
	if household.Kind == "" {
		household.Kind = "family"
	}

	if err := database.DB.Create(&household).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create household",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(household)
}

func GetHouseholds(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var owned []models.Household
	database.DB.Where("owner_id = ?", userID).Find(&owned)

	var joined []models.Household
	database.DB.
		Joins("JOIN household_members ON household_members.household_id = households.id").
		Where("household_members.user_id = ? AND households.owner_id != ?", userID, userID).
		Find(&joined)

	return c.JSON(append(owned, joined...))
}

func GetHousehold(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	householdID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid household ID",
		})
	}

	if !isHouseholdMember(householdID, userID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Household not found",
		})
	}

	var household models.Household
	if err := database.DB.Preload("Persons").First(&household, householdID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Household not found",
		})
	}

	return c.JSON(household)
}

func DeleteHousehold(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	householdID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid household ID",
		})
	}

	result := database.DB.Where("id = ? AND owner_id = ?", householdID, userID).Delete(&models.Household{})
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Household not found or you are not the owner",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func CreatePerson(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	householdID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid household ID",
		})
	}

	if !isHouseholdMember(householdID, userID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Household not found",
		})
	}

	var req models.CreatePersonRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name is required",
		})
	}

	person := models.Person{
		HouseholdID: householdID,
		Name:        req.Name,
		AvatarURL:   req.AvatarURL,
		Color:       req.Color,
	}

	if err := database.DB.Create(&person).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create person",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(person)
}

func GetPersons(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	householdID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid household ID",
		})
	}

	if !isHouseholdMember(householdID, userID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Household not found",
		})
	}

	var persons []models.Person
	database.DB.Where("household_id = ?", householdID).Order("created_at ASC").Find(&persons)

	return c.JSON(persons)
}

func UpdatePerson(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	personID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid person ID",
		})
	}

	var person models.Person
	if err := database.DB.First(&person, personID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Person not found",
		})
	}
	if !isHouseholdMember(person.HouseholdID, userID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Person not found",
		})
	}

	var req models.UpdatePersonRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name != nil {
		person.Name = *req.Name
	}
	if req.AvatarURL != nil {
		person.AvatarURL = *req.AvatarURL
	}
	if req.Color != nil {
		person.Color = *req.Color
	}

	if err := database.DB.Save(&person).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update person",
		})
	}

	return c.JSON(person)
}

func DeletePerson(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	personID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid person ID",
		})
	}

	var person models.Person
	if err := database.DB.First(&person, personID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Person not found",
		})
	}
	if !isHouseholdMember(person.HouseholdID, userID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Person not found",
		})
	}

	database.DB.Delete(&person)
	return c.SendStatus(fiber.StatusNoContent)
}
