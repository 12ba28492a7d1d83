/*
Package types defines the data structures shared across fitadmin.

# Overview

The types package provides shared definitions for:
  - Outgoing requests (RequestEnvelope, MultipartForm)
  - Exchange records handed to history recorders
  - Authentication state (Session, UserToken, UserInfo)
  - Upload tasks and their outcomes
  - Backend entities (exercises, trainers, trainees, notifications,
    legal documents, app settings)

# Request Types

RequestEnvelope:
  - Method, path, headers and query parameters
  - Either a JSON body or a multipart form, never both
  - Optional per-request timeout overriding the client default

# Upload Types

UploadFile:
  - Name, declared content type and raw bytes
  - Size is always derived from the bytes

UploadBatchResult:
  - One UploadOutcome per input file, in input order
  - Filenames() returns the successful server-assigned names

# Pagination

Paginated endpoints answer with:

	{
	  "data": [ ... ],
	  "meta": {
	    "total": 42,
	    "page": 1,
	    "limit": 10,
	    "totalPages": 5,
	    "hasNext": true,
	    "hasPrev": false
	  }
	}

Page[T] decodes that envelope directly.

# Field Tags

Entity fields follow the backend's wire names, which mix snake_case
(video_link, first_name) with camelCase (createdAt). Payload types that can
be read from files also carry YAML tags.
*/
package types
