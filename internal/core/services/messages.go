package services

// User-visible texts shared by the orchestrators
const (
	MsgSessionExpired      = "Your session has expired. Please sign in again."
	MsgSignInToUpload      = "You must be signed in to upload an image."
	MsgSignInToCheck       = "Sign in to check images for duplicates."
	MsgSignInToComment     = "You must be signed in to post a comment."
	MsgDuplicateCheckError = "Error checking for duplicate image."
	MsgDuplicateFound      = "Similar image found! Closest Match Distance: "
	MsgUploadDuplicate     = "Similar image found! This image cannot be uploaded. Please upload a different image."
	MsgUploadSuccessful    = "Upload successful"
	MsgUploadReadFailed    = "Upload failed: could not read server response."
	MsgUploadPreview       = "Upload failed (server response preview):"
	MsgUploadBusy          = "An upload of this image is already in progress."
	MsgCommentNegative     = "Your comment seems negative. Please revise it."
	MsgCommentFailed       = "Failed to post comment. Try again."
	MsgCommentEmpty        = "Comment cannot be empty."
	MsgCommentBusy         = "A comment on this post is already being posted."
	MsgCommentPosted       = "Comment posted."
)
