package dto

const MessageExportUploaded = "Export uploaded successfully"

type File struct {
	Name    string
	Rows    int
	Content []byte
}

type UploadResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	Rows     int    `json:"rows"`
}
