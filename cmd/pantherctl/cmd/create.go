package cmd

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pantherexchange/internal/models"
	"pantherexchange/pkg/catalogclient"
	apperrors "pantherexchange/pkg/errors"
)

type createFlags struct {
	title       string
	description string
	price       string
	address     string
	category    string
	image       string
	imageFile   string
	seller      string
}

func newCreateCommand(opts *options) *cobra.Command {
	var f createFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Post a new listing",
		Example: `  pantherctl create --title "Premium Desk Chair" --price '$100' \
    --category Furniture --address "Cathedral of Learning" --image-file chair.jpg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := opts.format()
			if err != nil {
				return err
			}
			input, err := f.input(catalogclient.DefaultMaxImageBytes)
			if err != nil {
				return err
			}
			client, err := opts.client()
			if err != nil {
				return usageError("%v", err)
			}

			listing, err := client.Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			return writeListing(cmd.OutOrStdout(), format, listing)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.title, "title", "", "listing title (required)")
	flags.StringVar(&f.description, "description", "", "longer description")
	flags.StringVar(&f.price, "price", "", `asking price, e.g. 50 or "$1,200.00" (required)`)
	flags.StringVar(&f.address, "address", "", "pickup location")
	flags.StringVar(&f.category, "category", "", "one of "+models.CategoryNames()+" (required)")
	flags.StringVar(&f.image, "image", "", "image URL or data URI")
	flags.StringVar(&f.imageFile, "image-file", "", "local image to embed as a data URI")
	flags.StringVar(&f.seller, "seller", "", "seller name shown on the listing")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("category")
	cmd.MarkFlagsMutuallyExclusive("image", "image-file")

	return cmd
}

func (f createFlags) input(maxImageBytes int64) (models.ListingInput, error) {
	price, err := models.ParsePrice(f.price)
	if err != nil {
		return models.ListingInput{}, apperrors.NewValidationError("price", err.Error())
	}

	image := f.image
	if f.imageFile != "" {
		image, err = imageDataURI(f.imageFile, maxImageBytes)
		if err != nil {
			return models.ListingInput{}, err
		}
	}

	return models.ListingInput{
		Title:       f.title,
		Description: f.description,
		Price:       price,
		Address:     f.address,
		Category:    models.Category(f.category),
		Image:       image,
		SellerName:  f.seller,
	}, nil
}

// imageDataURI embeds a local image file as a base64 data URI.
func imageDataURI(path string, maxImageBytes int64) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	// base64 grows the payload by a third
	if encoded := base64.StdEncoding.EncodedLen(int(info.Size())); int64(encoded) > maxImageBytes {
		return "", apperrors.NewPayloadTooLargeError("image", int64(encoded), maxImageBytes)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	mediaType, _, _ := strings.Cut(http.DetectContentType(raw), ";")
	if !strings.HasPrefix(mediaType, "image/") {
		return "", apperrors.NewValidationError("image", fmt.Sprintf("%s is %s, not an image", path, mediaType))
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}
