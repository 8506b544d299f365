package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	usersvc "shopkart/internal/service/user"
)

func getProfileHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.Get(c.Request.Context(), callerIdentity(c).UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func updateProfileHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in usersvc.ProfileInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		user, err := users.UpdateProfile(c.Request.Context(), callerIdentity(c).UserID, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func listAddressesHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		addresses, err := users.ListAddresses(c.Request.Context(), callerIdentity(c).UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, addresses)
	}
}

func createAddressHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in usersvc.AddressInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		address, err := users.CreateAddress(c.Request.Context(), callerIdentity(c).UserID, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, address)
	}
}

func updateAddressHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in usersvc.AddressInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		address, err := users.UpdateAddress(c.Request.Context(), callerIdentity(c).UserID, c.Param("id"), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, address)
	}
}

func deleteAddressHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := users.DeleteAddress(c.Request.Context(), callerIdentity(c).UserID, c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func getWishlistHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := users.Wishlist(c.Request.Context(), callerIdentity(c).UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func addWishlistItemHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, err := users.AddToWishlist(c.Request.Context(), callerIdentity(c).UserID, c.Param("productId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func removeWishlistItemHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := users.RemoveFromWishlist(c.Request.Context(), callerIdentity(c).UserID, c.Param("productId")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
