// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains the message strings shared by the server handlers
// and the client error mapper.
//
// The server writes a Msg* constant into the "error" field of every error
// response; the client matches on it to recover the sentinel error. Keep
// the wording stable: it is part of the API.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails validation.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInvalidQuery is returned for a table query with an unknown filter
	// or order column or a malformed operator.
	MsgInvalidQuery = "invalid table query"

	// MsgInvalidLoginPassword is returned when the login/password
	// combination does not match an account.
	MsgInvalidLoginPassword = "invalid login/password"

	MsgInternalServerError = "internal server error"

	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgAccessDenied is returned when a user tries to delete a comment
	// written by somebody else.
	MsgAccessDenied = "access denied"

	MsgRegistrationFailed = "registration failed"
	MsgLoginFailed        = "login failed"
	MsgLoginAlreadyExists = "login already exists"

	MsgListNotFound          = "list not found"
	MsgCommentNotFound       = "comment not found"
	MsgParentCommentNotFound = "parent comment not found"
	MsgNotificationNotFound  = "notification not found"

	// MsgEmptyComment is returned for a comment whose body is blank after trimming.
	MsgEmptyComment = "comment body is empty"
)
