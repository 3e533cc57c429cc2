/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific request, chat and storage failures both
inside the server and in what is reported to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that a JSON body or websocket frame could not be decoded.
	ErrInvalidJSONFormat = 1003

	// ErrFormParseFailed indicates failure to parse multipart form data.
	ErrFormParseFailed = 1005

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrNotFound indicates that the requested resource does not exist.
	ErrNotFound = 1008
)

// 2xxx: Chat Event Errors
const (
	// ErrUnsupportedEvent indicates that the client sent an event name the hub does not handle.
	ErrUnsupportedEvent = 2001

	// ErrInvalidEventPayload indicates that an event payload is missing required fields.
	ErrInvalidEventPayload = 2002

	// ErrNameTooLong indicates that the display name in a join event exceeds the limit.
	ErrNameTooLong = 2101

	// ErrMessageContentTooLong indicates that the message text exceeded the maximum length limit.
	ErrMessageContentTooLong = 2201

	// ErrMessageContentEmpty indicates that a text message carried no visible content.
	ErrMessageContentEmpty = 2202

	// ErrAttachmentInvalid indicates an image or file message referencing an unusable upload.
	ErrAttachmentInvalid = 2203
)

// 4xxx: Upload and Storage Errors
const (
	// ErrNoFileUploaded indicates that an upload request carried no file part.
	ErrNoFileUploaded = 4001

	// ErrFileNameInvalid indicates that the uploaded file name cannot be used as a storage key.
	ErrFileNameInvalid = 4002

	// ErrFileStorageFailed indicates the storage backend rejected a write or read.
	ErrFileStorageFailed = 4003
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
