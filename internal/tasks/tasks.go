package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Register decoders for the formats uploads arrive in
	"image/jpeg"
	_ "image/png"
	"io"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hibiken/asynq"
	"github.com/nfnt/resize"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/config"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/email"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/models"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/services"
)

// Task types handled by the background worker.
const (
	TypeEmailDelivery = "email:deliver"
	TypePhotoProcess  = "photo:process"
)

// --- Task Client (Enqueuing tasks) ---

func NewClient(rdb *redis.Client) *asynq.Client {
	clientOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}
	return asynq.NewClient(clientOpt)
}

// EmailTaskPayload is the data for an email delivery task. Subject and Body
// are rendered at enqueue time so the worker needs no template state.
type EmailTaskPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// PhotoTaskPayload is the data for a catalog photo processing task.
type PhotoTaskPayload struct {
	S3Key      string `json:"s3_key"`
	Kind       string `json:"kind"`
	ResourceID string `json:"resource_id"`
}

// NewEmailDeliveryTask creates an asynq task carrying a rendered email.
func NewEmailDeliveryTask(to, subject, body string) (*asynq.Task, error) {
	payload, err := json.Marshal(EmailTaskPayload{To: to, Subject: subject, Body: body})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal email task payload: %w", err)
	}
	return asynq.NewTask(TypeEmailDelivery, payload), nil
}

// NewPhotoProcessTask creates an asynq task for normalizing an uploaded
// catalog photo.
func NewPhotoProcessTask(s3Key string, kind models.ResourceKind, resourceID primitive.ObjectID) (*asynq.Task, error) {
	payload, err := json.Marshal(PhotoTaskPayload{
		S3Key:      s3Key,
		Kind:       string(kind),
		ResourceID: resourceID.Hex(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal photo task payload: %w", err)
	}
	return asynq.NewTask(TypePhotoProcess, payload, asynq.Queue("images")), nil
}

// NewInquiryReceivedTask builds the notification email sent to the agency
// inbox when a new inquiry arrives.
func NewInquiryReceivedTask(cfg *config.Config, inq *models.Inquiry) (*asynq.Task, error) {
	subject := fmt.Sprintf("New trip inquiry from %s", inq.ContactInfo.Name)

	var sb strings.Builder
	fmt.Fprintf(&sb, "A new custom trip inquiry has been submitted.\n\n")
	fmt.Fprintf(&sb, "Inquiry ID: %s\n", inq.ID.Hex())
	fmt.Fprintf(&sb, "Name: %s\n", inq.ContactInfo.Name)
	fmt.Fprintf(&sb, "Email: %s\n", inq.ContactInfo.Email)
	if inq.ContactInfo.Phone != "" {
		fmt.Fprintf(&sb, "Phone: %s\n", inq.ContactInfo.Phone)
	}
	fmt.Fprintf(&sb, "Start date: %s\n", inq.TripDetails.StartDate.Format("2006-01-02"))
	fmt.Fprintf(&sb, "Travellers: %d\n", inq.TripDetails.Travellers)
	fmt.Fprintf(&sb, "Duration: %d days / %d nights\n", inq.TripDetails.TotalDays, inq.TripDetails.TotalNights)
	fmt.Fprintf(&sb, "Itinerary stops: %d\n", len(inq.Itinerary))
	fmt.Fprintf(&sb, "Estimated total: %.2f\n", inq.CostBreakdown.TotalCost)
	if inq.AdditionalRequirements != "" {
		fmt.Fprintf(&sb, "\nAdditional requirements:\n%s\n", inq.AdditionalRequirements)
	}

	return NewEmailDeliveryTask(cfg.AgencyInboxEmail, subject, sb.String())
}

// NewQuoteIssuedTask builds the email telling the customer their quote is
// ready. The inquiry must carry a quote when this is called.
func NewQuoteIssuedTask(cfg *config.Config, inq *models.Inquiry) (*asynq.Task, error) {
	if inq.Quote == nil {
		return nil, fmt.Errorf("inquiry %s has no quote to notify about", inq.ID.Hex())
	}

	subject := fmt.Sprintf("Your %s trip quote is ready", cfg.AppName)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Hello %s,\n\n", inq.ContactInfo.Name)
	fmt.Fprintf(&sb, "We have prepared a quote for your custom trip starting %s.\n\n",
		inq.TripDetails.StartDate.Format("2006-01-02"))
	fmt.Fprintf(&sb, "Final price: %.2f\n", inq.Quote.FinalPrice)
	if inq.Quote.ValidUntil != nil {
		fmt.Fprintf(&sb, "Valid until: %s\n", inq.Quote.ValidUntil.Format("2006-01-02"))
	}
	if inq.Quote.Terms != "" {
		fmt.Fprintf(&sb, "\nTerms:\n%s\n", inq.Quote.Terms)
	}
	fmt.Fprintf(&sb, "\nReply to this email with any questions.\n")

	return NewEmailDeliveryTask(inq.ContactInfo.Email, subject, sb.String())
}

// --- Task Server (Processing tasks) ---

// TaskProcessor holds the dependencies task handlers need.
type TaskProcessor struct {
	cfg            *config.Config
	emailSender    email.Sender
	catalogService services.ICatalogService
	s3Client       *s3.Client
}

func NewTaskProcessor(
	cfg *config.Config,
	emailSender email.Sender,
	catalogService services.ICatalogService,
	s3Client *s3.Client,
) *TaskProcessor {
	return &TaskProcessor{
		cfg:            cfg,
		emailSender:    emailSender,
		catalogService: catalogService,
		s3Client:       s3Client,
	}
}

// SetupServer configures and runs an Asynq server. Blocks until the server
// stops.
func SetupServer(rdb *redis.Client, processor *TaskProcessor) error {
	serverOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}

	srv := asynq.NewServer(
		serverOpt,
		asynq.Config{
			Queues: map[string]int{
				"default": 5,
				"images":  3,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq Error] Task Type: %s, Payload: %s, Error: %v", task.Type(), string(task.Payload()), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailDelivery, processor.HandleEmailDeliveryTask)
	mux.HandleFunc(TypePhotoProcess, processor.HandlePhotoProcessTask)

	log.Println("Registered background task handlers.")
	return srv.Run(mux)
}

// --- Task Handlers ---

// HandleEmailDeliveryTask delivers a pre-rendered email.
func (p *TaskProcessor) HandleEmailDeliveryTask(ctx context.Context, t *asynq.Task) error {
	var payload EmailTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal email task payload: %v: %w", err, asynq.SkipRetry)
	}

	fromAddress := p.cfg.SmtpFromAddress

	// Plain-text message with minimal headers. HTML mail would need proper
	// MIME encoding.
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("To: %s\r\n", payload.To))
	sb.WriteString(fmt.Sprintf("From: %s\r\n", fromAddress))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", payload.Subject))
	sb.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(payload.Body)
	sb.WriteString("\r\n")

	err := p.emailSender.Send(ctx, []string{payload.To}, payload.Subject, []byte(sb.String()))
	if err != nil {
		log.Printf("Email sending failed for %s: %v", payload.To, err)
		return err
	}

	log.Printf("Email task processed successfully: To=%s, Subject=%s", payload.To, payload.Subject)
	return nil
}

// HandlePhotoProcessTask downloads an uploaded catalog photo, shrinks it to
// the configured maximum dimension, writes the processed copy back to S3 and
// attaches the key to the resource.
func (p *TaskProcessor) HandlePhotoProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload PhotoTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal photo task payload: %v: %w", err, asynq.SkipRetry)
	}

	kind := models.ResourceKind(payload.Kind)
	if !kind.Valid() {
		return fmt.Errorf("unknown resource kind %q in photo task: %w", payload.Kind, asynq.SkipRetry)
	}
	resourceID, err := primitive.ObjectIDFromHex(payload.ResourceID)
	if err != nil {
		log.Printf("Invalid ResourceID in photo task payload: %s", payload.ResourceID)
		return fmt.Errorf("invalid resource ID in payload: %w", asynq.SkipRetry)
	}

	log.Printf("Processing photo task: S3Key=%s, Kind=%s, ResourceID=%s", payload.S3Key, kind, payload.ResourceID)

	getObjectOutput, err := p.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.cfg.AwsS3Bucket),
		Key:    aws.String(payload.S3Key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			log.Printf("S3 object %s not found, likely upload failed or key incorrect.", payload.S3Key)
			return fmt.Errorf("s3 object not found: %w", asynq.SkipRetry)
		}
		return fmt.Errorf("failed to download photo from S3: %w", err)
	}
	defer getObjectOutput.Body.Close()

	imgData, err := io.ReadAll(getObjectOutput.Body)
	if err != nil {
		return fmt.Errorf("failed to read photo data for %s: %w", payload.S3Key, err)
	}

	img, format, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		log.Printf("Error decoding photo for key %s: %v", payload.S3Key, err)
		return fmt.Errorf("unsupported image format or corrupt image: %w", asynq.SkipRetry)
	}
	log.Printf("Decoded photo %s, format: %s, size: %dx%d", payload.S3Key, format, img.Bounds().Dx(), img.Bounds().Dy())

	maxDim := uint(p.cfg.PhotoMaxDimension)
	if uint(img.Bounds().Dx()) > maxDim || uint(img.Bounds().Dy()) > maxDim {
		img = resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)
		log.Printf("Resized photo %s to %dx%d", payload.S3Key, img.Bounds().Dx(), img.Bounds().Dy())
	}

	// Always re-encode as JPEG so the catalog serves one format.
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("failed to encode processed photo %s: %w", payload.S3Key, err)
	}

	processedKey := strings.Replace(payload.S3Key, "uploads/", "photos/", 1)
	_, err = p.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.cfg.AwsS3Bucket),
		Key:         aws.String(processedKey),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload processed photo %s: %w", processedKey, err)
	}

	if err := p.catalogService.AddPhoto(ctx, kind, resourceID, processedKey); err != nil {
		log.Printf("Error adding photo key %s to %s %s: %v", processedKey, kind, payload.ResourceID, err)
		return fmt.Errorf("failed to update resource with processed photo: %w", err)
	}

	log.Printf("Photo task processed successfully: Key=%s, Kind=%s, ResourceID=%s", processedKey, kind, payload.ResourceID)
	return nil
}
