/*
Package authsdk provides the wire types and a small Go client for the
authstate service.

# Overview

The server uses the types in this package to encode its responses, and the
SDKClient uses the same types to decode them, so both sides stay in step.

	client := authsdk.NewSDKClient("http://localhost:8080")

	token, err := client.Login(ctx, "fred", "fredpw")
	if authsdk.IsInvalidCredentials(err) {
		fmt.Println(authsdk.MessageInvalidCredentials)
	}

	state, err := client.State(ctx, token)
	fmt.Println(state.Name, state.Roles)

# Sessions

A session models one UI connection. It starts disconnected, keeping any
token in memory, and becomes connected once the durable store is attached:

	sess, _ := client.OpenSession(ctx)
	_, _ = client.SessionLogin(ctx, sess.SessionID, "fred", "fredpw")
	_, _ = client.ConnectSession(ctx, sess.SessionID)

	// Still signed in, the token was migrated on connect.
	state, _ := client.SessionState(ctx, sess.SessionID)

# Error Handling

Every non-2xx response becomes an *APIError. Failed logins are deliberately
vague: the description is always MessageInvalidCredentials.
*/
package authsdk
